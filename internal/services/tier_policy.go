package services

import "github.com/terraincognita07/bujo/internal/models"

// Unlimited marks a tier limit that never binds.
const Unlimited = -1

type TierLimits struct {
	MaxActiveQuestions   int  `json:"max_active_questions"`
	MaxPersonalTemplates int  `json:"max_personal_templates"`
	CustomPalette        bool `json:"custom_palette"`
	AllChartStyles       bool `json:"all_chart_styles"`
}

var tierLimits = map[int]TierLimits{
	0: {MaxActiveQuestions: 5, MaxPersonalTemplates: 0},
	1: {MaxActiveQuestions: 10, MaxPersonalTemplates: 3, CustomPalette: true},
	2: {MaxActiveQuestions: 20, MaxPersonalTemplates: 10, CustomPalette: true, AllChartStyles: true},
	3: {MaxActiveQuestions: 50, MaxPersonalTemplates: 50, CustomPalette: true, AllChartStyles: true},
	4: {MaxActiveQuestions: Unlimited, MaxPersonalTemplates: Unlimited, CustomPalette: true, AllChartStyles: true},
}

func LimitsForTier(tier int) TierLimits {
	if tier < models.MinAccountTier {
		tier = models.MinAccountTier
	}
	if tier > models.MaxAccountTier {
		tier = models.MaxAccountTier
	}
	return tierLimits[tier]
}

// LimitsForProfile grants admins the top tier regardless of the stored tier.
func LimitsForProfile(profile models.Profile) TierLimits {
	if IsAdminProfile(profile) {
		return LimitsForTier(models.MaxAccountTier)
	}
	return LimitsForTier(profile.AccountTier)
}

func IsAdminProfile(profile models.Profile) bool {
	return profile.IsAdmin || profile.AccountTier >= models.MaxAccountTier
}

func WithinLimit(limit int, current int64) bool {
	return limit == Unlimited || current < int64(limit)
}
