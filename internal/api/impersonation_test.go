package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
	"github.com/terraincognita07/bujo/internal/services"
)

func TestImpersonationViewsTargetReadOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedProfile(t, func(profile *models.Profile) { profile.IsAdmin = true })
	target := env.seedProfile(t, func(profile *models.Profile) {
		profile.DisplayName = "Target"
		profile.Timezone = "Asia/Tokyo"
	})
	adminToken := env.token(t, admin.UserID)

	response := env.do(t, http.MethodPost, "/api/admin/impersonate", adminToken, map[string]string{"user_id": target.UserID.String()})
	expectStatus(t, response, http.StatusOK)
	cookie := responseCookie(response, impersonationCookieName)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected http-only impersonation cookie, got %+v", cookie)
	}

	response = env.do(t, http.MethodGet, "/api/me", adminToken, nil, withCookie(cookie))
	expectStatus(t, response, http.StatusOK)
	me := decodeJSON[mePayload](t, response)
	if me.UserID != target.UserID || me.ActorID != admin.UserID || !me.Impersonating || !me.IsAdmin {
		t.Fatalf("unexpected me payload %+v", me)
	}

	response = env.do(t, http.MethodGet, "/api/profile", adminToken, nil, withCookie(cookie))
	expectStatus(t, response, http.StatusOK)
	if profile := decodeJSON[models.Profile](t, response); profile.DisplayName != "Target" {
		t.Fatalf("expected target profile, got %+v", profile)
	}

	response = env.do(t, http.MethodPut, "/api/profile", adminToken, map[string]any{"display_name": "Changed"}, withCookie(cookie))
	expectStatus(t, response, http.StatusForbidden)
	if message := readAPIError(t, response); message != services.ErrViewerReadOnly.Error() {
		t.Fatalf("unexpected error %q", message)
	}

	response = env.do(t, http.MethodDelete, "/api/admin/impersonate", adminToken, nil, withCookie(cookie))
	expectStatus(t, response, http.StatusNoContent)
	if cleared := responseCookie(response, impersonationCookieName); cleared == nil || cleared.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cleared)
	}

	response = env.do(t, http.MethodGet, "/api/me", adminToken, nil)
	expectStatus(t, response, http.StatusOK)
	if me := decodeJSON[mePayload](t, response); me.Impersonating || me.UserID != admin.UserID {
		t.Fatalf("expected own identity after stop, got %+v", me)
	}
}

func TestImpersonationRequiresAdminAndOtherUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedProfile(t, func(profile *models.Profile) { profile.IsAdmin = true })
	regular := env.seedProfile(t, func(*models.Profile) {})

	response := env.do(t, http.MethodPost, "/api/admin/impersonate", env.token(t, regular.UserID), map[string]string{"user_id": admin.UserID.String()})
	expectStatus(t, response, http.StatusForbidden)

	response = env.do(t, http.MethodPost, "/api/admin/impersonate", env.token(t, admin.UserID), map[string]string{"user_id": admin.UserID.String()})
	expectStatus(t, response, http.StatusBadRequest)

	response = env.do(t, http.MethodPost, "/api/admin/impersonate", env.token(t, admin.UserID), map[string]string{"user_id": "nope"})
	expectStatus(t, response, http.StatusBadRequest)
}

func TestImpersonationCookieIgnoredForOtherActorsAndAfterExpiry(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedProfile(t, func(profile *models.Profile) { profile.IsAdmin = true })
	otherAdmin := env.seedProfile(t, func(profile *models.Profile) { profile.AccountTier = 4 })
	target := uuid.New()

	response := env.do(t, http.MethodPost, "/api/admin/impersonate", env.token(t, admin.UserID), map[string]string{"user_id": target.String()})
	expectStatus(t, response, http.StatusOK)
	cookie := responseCookie(response, impersonationCookieName)

	response = env.do(t, http.MethodGet, "/api/me", env.token(t, otherAdmin.UserID), nil, withCookie(cookie))
	expectStatus(t, response, http.StatusOK)
	if me := decodeJSON[mePayload](t, response); me.Impersonating {
		t.Fatalf("cookie must not transfer between actors: %+v", me)
	}

	env.now = env.now.Add(impersonationTTL + time.Minute)
	response = env.do(t, http.MethodGet, "/api/me", env.token(t, admin.UserID), nil, withCookie(cookie))
	expectStatus(t, response, http.StatusOK)
	if me := decodeJSON[mePayload](t, response); me.Impersonating {
		t.Fatalf("expired cookie must be ignored: %+v", me)
	}
}

func TestSetUserTierUpsertsProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedProfile(t, func(profile *models.Profile) { profile.IsAdmin = true })
	target := uuid.New()
	token := env.token(t, admin.UserID)

	response := env.do(t, http.MethodPut, "/api/admin/users/"+target.String()+"/tier", token, map[string]any{"account_tier": 7})
	expectStatus(t, response, http.StatusBadRequest)

	response = env.do(t, http.MethodPut, "/api/admin/users/"+target.String()+"/tier", token, map[string]any{"account_tier": 3, "is_admin": true})
	expectStatus(t, response, http.StatusOK)

	stored, found, err := env.repositories.Profiles.FindByUserID(target)
	if err != nil || !found || stored.AccountTier != 3 || !stored.IsAdmin {
		t.Fatalf("expected upserted tier, got %+v found=%v err=%v", stored, found, err)
	}

	response = env.do(t, http.MethodGet, "/api/admin/users", token, nil)
	expectStatus(t, response, http.StatusOK)
	if users := decodeJSON[[]models.Profile](t, response); len(users) != 2 {
		t.Fatalf("expected two profiles, got %d", len(users))
	}
}
