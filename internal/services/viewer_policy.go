package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/terraincognita07/bujo/internal/models"
)

var (
	ErrImpersonationForbidden = errors.New("only admins can view as another user")
	ErrImpersonationSelf      = errors.New("cannot view as yourself")
	ErrViewerReadOnly         = errors.New("impersonated sessions are read-only")
)

// Viewer is the identity a request acts with. Subject owns the data being
// read; Actor is the signed-in user, which differs only while an admin
// views as someone else.
type Viewer struct {
	Subject models.Profile
	Actor   models.Profile
}

func NewViewer(actor models.Profile) Viewer {
	return Viewer{Subject: actor, Actor: actor}
}

func (viewer Viewer) Impersonating() bool {
	return viewer.Subject.UserID != viewer.Actor.UserID
}

func (viewer Viewer) CanMutate() bool {
	return !viewer.Impersonating()
}

func CanImpersonate(actor models.Profile, targetID uuid.UUID) error {
	if !IsAdminProfile(actor) {
		return ErrImpersonationForbidden
	}
	if actor.UserID == targetID {
		return ErrImpersonationSelf
	}
	return nil
}
