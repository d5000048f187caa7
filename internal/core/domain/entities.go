package domain

import (
	"strings"
	"time"
)

// Role represents user role in the system
type Role string

const (
	RolePharmacist    Role = "PHARMACIST"
	RolePharmacyOwner Role = "PHARMACY_OWNER"
	RoleAdmin         Role = "ADMIN"
)

// Valid reports whether r is a declared role
func (r Role) Valid() bool {
	switch r {
	case RolePharmacist, RolePharmacyOwner, RoleAdmin:
		return true
	}
	return false
}

// HasSubscription reports whether users of this role hold a subscription profile
func (r Role) HasSubscription() bool {
	return r == RolePharmacist || r == RolePharmacyOwner
}

// Plan is a subscription tier
type Plan string

const (
	PlanFree     Plan = "FREE"
	PlanStandard Plan = "STANDARD"
	PlanPremium  Plan = "PREMIUM"
)

// Plans lists all plans in ascending order
var Plans = []Plan{PlanFree, PlanStandard, PlanPremium}

// Valid reports whether p is a declared plan
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanStandard, PlanPremium:
		return true
	}
	return false
}

// IsPaid reports whether the plan requires a payment request
func (p Plan) IsPaid() bool {
	return p == PlanStandard || p == PlanPremium
}

// AllowedFor reports whether the plan may be held by the given role.
// PREMIUM is restricted to pharmacy owners.
func (p Plan) AllowedFor(role Role) bool {
	if !role.HasSubscription() {
		return false
	}
	if p == PlanPremium {
		return role == RolePharmacyOwner
	}
	return p.Valid()
}

// SubscriptionStatus is the stored status of a profile subscription
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
	SubscriptionNone    SubscriptionStatus = "NONE"
	SubscriptionPending SubscriptionStatus = "PENDING"
)

// PaymentStatus is the state of a payment request
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

// Valid reports whether s is a declared payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentConfirmed, PaymentRejected:
		return true
	}
	return false
}

// IsFinal reports whether no further transition is allowed
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentConfirmed || s == PaymentRejected
}

// Lower returns the status in lower case for messages
func (s PaymentStatus) Lower() string {
	return strings.ToLower(string(s))
}

// PaymentAction is an admin decision on a payment request
type PaymentAction string

const (
	ActionConfirm PaymentAction = "CONFIRM"
	ActionReject  PaymentAction = "REJECT"
)

// ParsePaymentAction accepts CONFIRM/REJECT in any case
func ParsePaymentAction(s string) (PaymentAction, bool) {
	a := PaymentAction(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case ActionConfirm, ActionReject:
		return a, true
	}
	return "", false
}

// SubscriptionPeriod is how long a confirmed paid plan stays active
const SubscriptionPeriod = 30 * 24 * time.Hour

// Identity is the authenticated caller extracted from a verified token
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// Subscription holds the subscription fields of a role-specific profile
type Subscription struct {
	Plan      Plan
	Status    SubscriptionStatus
	ExpiresAt *time.Time
}

// IsExpired reports whether the expiry is set and strictly before now
func (s Subscription) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// DisplayStatus downgrades the status to EXPIRED when the expiry has passed.
// The stored status is not changed.
func (s Subscription) DisplayStatus(now time.Time) SubscriptionStatus {
	if s.IsExpired(now) {
		return SubscriptionExpired
	}
	return s.Status
}

// DaysRemaining returns ceil((expiry - now) in days) floored at zero,
// or nil when there is no expiry.
func (s Subscription) DaysRemaining(now time.Time) *int {
	if s.ExpiresAt == nil {
		return nil
	}
	left := s.ExpiresAt.Sub(now)
	days := 0
	if left > 0 {
		day := 24 * time.Hour
		days = int(left / day)
		if left%day != 0 {
			days++
		}
	}
	return &days
}

// EffectivePlan is FREE once the subscription has expired
func (s Subscription) EffectivePlan(now time.Time) Plan {
	if s.IsExpired(now) {
		return PlanFree
	}
	return s.Plan
}
