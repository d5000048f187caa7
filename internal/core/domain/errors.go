package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an application error. Handlers map kinds to HTTP status codes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindStateConflict
	KindConflict
	KindConfiguration
	KindPaymentRequired
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindStateConflict:
		return "state_conflict"
	case KindConflict:
		return "conflict"
	case KindConfiguration:
		return "configuration"
	case KindPaymentRequired:
		return "payment_required"
	default:
		return "internal"
	}
}

// Error is the error type returned by services
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and message, so sentinel
// values keep working after being wrapped or copied.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewError creates an error of the given kind
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error
func Wrap(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return NewError(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return NewError(KindNotFound, format, args...)
}

func StateConflict(format string, args ...interface{}) *Error {
	return NewError(KindStateConflict, format, args...)
}

func Internal(err error, message string) *Error {
	return Wrap(KindInternal, err, message)
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Common domain errors
var (
	ErrUnauthorized       = NewError(KindAuthentication, "Authentication required")
	ErrInvalidCredentials = NewError(KindAuthentication, "Invalid credentials")
	ErrTokenExpired       = NewError(KindAuthentication, "Token expired")
	ErrTokenInvalid       = NewError(KindAuthentication, "Invalid or expired token")
	ErrTokenRevoked       = NewError(KindAuthentication, "Token revoked")
	ErrForbidden          = NewError(KindAuthorization, "You don't have permission to access this resource")
	ErrRoleMismatch       = NewError(KindAuthorization, "User role mismatch")
	ErrUserInactive       = NewError(KindAuthorization, "User account is inactive")
	ErrInvalidRole        = NewError(KindValidation, "Invalid user role")
)

// User errors
var (
	ErrUserNotFound      = NewError(KindNotFound, "User not found")
	ErrUserAlreadyExists = NewError(KindConflict, "User with this email already exists")
	ErrProfileNotFound   = NewError(KindNotFound, "User profile not found")
)

// Subscription and payment errors
var (
	ErrInvalidPlan             = NewError(KindValidation, "Valid subscription plan is required")
	ErrPremiumForPharmacist    = NewError(KindValidation, "Premium plan is not available for pharmacists")
	ErrWalletNotConfigured     = NewError(KindConfiguration, "Platform payment wallet not configured. Please contact support.")
	ErrPaymentRequestNotFound  = NewError(KindNotFound, "Payment request not found")
	ErrPaymentRequestNotOwned  = NewError(KindNotFound, "Payment request not found or you are not authorized to update it.")
	ErrInvalidPaymentAction    = NewError(KindValidation, "Action must be either CONFIRM or REJECT.")
	ErrRejectionReasonRequired = NewError(KindValidation, "Rejection reason is required if action is REJECT.")
	ErrWalletAddressRequired   = NewError(KindValidation, "Sender wallet address is required.")
	ErrWalletNotFound          = NewError(KindNotFound, "Wallet configuration not found")
	ErrWalletAlreadyExists     = NewError(KindConflict, "Wallet address already configured")
	ErrCityNotFound            = NewError(KindNotFound, "City not found")
	ErrNoSubscription          = NewError(KindValidation, "Subscriptions are only available for pharmacists and pharmacy owners.")
	ErrInvalidPaymentID        = NewError(KindValidation, "Valid payment request ID is required.")
	ErrInvalidWalletID         = NewError(KindValidation, "Valid wallet ID is required.")
	ErrUnknownFeature          = NewError(KindNotFound, "Unknown feature")
)

// ErrAlreadySubscribed reports a plan change to the plan already active
func ErrAlreadySubscribed(plan Plan) *Error {
	return Validation("You are already subscribed to the %s plan.", plan)
}

// ErrPricingNotFound reports a plan without a pricing row
func ErrPricingNotFound(plan Plan) *Error {
	return NotFound("Pricing for %s plan not found.", plan)
}

// ErrPaymentAlreadyProcessed reports a transition attempt out of a terminal status
func ErrPaymentAlreadyProcessed(status PaymentStatus) *Error {
	return StateConflict("Payment request has already been %s.", status.Lower())
}

// ErrPaymentNotPending reports evidence on a request that is no longer PENDING
func ErrPaymentNotPending(status PaymentStatus) *Error {
	return StateConflict("Payment request is already %s.", status.Lower())
}

// ErrFeatureRequiresPlan reports a feature gate failure
func ErrFeatureRequiresPlan(reason string) *Error {
	return NewError(KindPaymentRequired, "%s", reason)
}
