package services

import (
	"testing"

	"github.com/terraincognita07/bujo/internal/models"
)

func TestLimitsForTierTable(t *testing.T) {
	free := LimitsForTier(0)
	if free.MaxActiveQuestions != 5 || free.MaxPersonalTemplates != 0 || free.CustomPalette || free.AllChartStyles {
		t.Fatalf("unexpected tier 0 limits: %#v", free)
	}
	plus := LimitsForTier(1)
	if plus.MaxActiveQuestions != 10 || plus.MaxPersonalTemplates != 3 || !plus.CustomPalette || plus.AllChartStyles {
		t.Fatalf("unexpected tier 1 limits: %#v", plus)
	}
	if !LimitsForTier(2).AllChartStyles {
		t.Fatal("expected tier 2 to unlock chart styles")
	}
	if LimitsForTier(4).MaxActiveQuestions != Unlimited {
		t.Fatal("expected tier 4 to be unlimited")
	}
}

func TestLimitsForTierClampsOutOfRange(t *testing.T) {
	if LimitsForTier(-3) != LimitsForTier(0) {
		t.Fatal("expected negative tier to clamp to 0")
	}
	if LimitsForTier(9) != LimitsForTier(4) {
		t.Fatal("expected large tier to clamp to 4")
	}
}

func TestIsAdminProfile(t *testing.T) {
	if IsAdminProfile(models.Profile{AccountTier: 3}) {
		t.Fatal("expected tier 3 without flag not to be admin")
	}
	if !IsAdminProfile(models.Profile{AccountTier: 4}) {
		t.Fatal("expected tier 4 to be admin")
	}
	if !IsAdminProfile(models.Profile{IsAdmin: true}) {
		t.Fatal("expected is_admin flag to grant admin")
	}
	if LimitsForProfile(models.Profile{IsAdmin: true}).MaxActiveQuestions != Unlimited {
		t.Fatal("expected admins to get unlimited limits")
	}
}

func TestWithinLimit(t *testing.T) {
	if !WithinLimit(Unlimited, 1000) {
		t.Fatal("expected unlimited to always allow")
	}
	if !WithinLimit(5, 4) || WithinLimit(5, 5) {
		t.Fatal("expected limit 5 to allow 4 and refuse 5")
	}
}
