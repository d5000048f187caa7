package domain

// Feature is a capability gated by subscription plan
type Feature string

const (
	FeatureAnalytics       Feature = "analytics"
	FeaturePrioritySupport Feature = "priority-support"
	FeatureCustomBranding  Feature = "custom-branding"
	FeatureAPIAccess       Feature = "api-access"
	FeatureFeaturedBadge   Feature = "featured-badge"
)

// Limits describes what a plan allows. A nil max means unlimited.
type Limits struct {
	MaxProductListings    *int `json:"maxProductListings"`
	MaxJobApplications    *int `json:"maxJobApplications"`
	HasAdvancedAnalytics  bool `json:"hasAdvancedAnalytics"`
	HasPrioritySupport    bool `json:"hasPrioritySupport"`
	HasEmailNotifications bool `json:"hasEmailNotifications"`
	HasPriorityInSearch   bool `json:"hasPriorityInSearch"`
	HasCustomBranding     bool `json:"hasCustomBranding"`
	HasAPIAccess          bool `json:"hasApiAccess"`
	HasFeaturedBadge      bool `json:"hasFeaturedBadge"`
}

func intPtr(v int) *int { return &v }

// LimitsFor returns the limits of plan for role
func LimitsFor(plan Plan, role Role) Limits {
	if role == RoleAdmin {
		return Limits{
			HasAdvancedAnalytics:  true,
			HasPrioritySupport:    true,
			HasEmailNotifications: true,
			HasPriorityInSearch:   true,
			HasCustomBranding:     true,
			HasAPIAccess:          true,
			HasFeaturedBadge:      true,
		}
	}

	switch plan {
	case PlanFree:
		if role == RolePharmacist {
			return Limits{MaxJobApplications: intPtr(5)}
		}
		return Limits{MaxProductListings: intPtr(10)}
	case PlanStandard:
		l := Limits{
			HasAdvancedAnalytics:  true,
			HasEmailNotifications: true,
			HasPriorityInSearch:   true,
		}
		if role == RolePharmacyOwner {
			l.HasPrioritySupport = true
		}
		return l
	case PlanPremium:
		if role != RolePharmacyOwner {
			return Limits{}
		}
		return Limits{
			HasAdvancedAnalytics:  true,
			HasPrioritySupport:    true,
			HasEmailNotifications: true,
			HasPriorityInSearch:   true,
			HasCustomBranding:     true,
			HasAPIAccess:          true,
			HasFeaturedBadge:      true,
		}
	}
	return Limits{}
}

// Allows reports whether the limits grant feature, with a reason when they don't
func (l Limits) Allows(f Feature) (bool, string) {
	switch f {
	case FeatureAnalytics:
		return l.HasAdvancedAnalytics, "Advanced analytics requires Standard or Premium subscription"
	case FeaturePrioritySupport:
		return l.HasPrioritySupport, "Priority support requires a paid pharmacy subscription"
	case FeatureCustomBranding:
		return l.HasCustomBranding, "Custom branding requires Premium subscription"
	case FeatureAPIAccess:
		return l.HasAPIAccess, "API access requires Premium subscription"
	case FeatureFeaturedBadge:
		return l.HasFeaturedBadge, "Featured badge requires Premium subscription"
	}
	return false, "Unknown feature"
}

// ParseFeature validates a feature name from a route parameter
func ParseFeature(s string) (Feature, bool) {
	f := Feature(s)
	switch f {
	case FeatureAnalytics, FeaturePrioritySupport, FeatureCustomBranding, FeatureAPIAccess, FeatureFeaturedBadge:
		return f, true
	}
	return "", false
}
