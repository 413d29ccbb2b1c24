package booking

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the rule a rejected request violated
type ErrorCode string

const (
	CodeUnauthenticated     ErrorCode = "UNAUTHENTICATED"
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	CodeServiceAreaMismatch ErrorCode = "SERVICE_AREA_MISMATCH"
	CodeServiceTypeMismatch ErrorCode = "SERVICE_TYPE_MISMATCH"
	CodeDurationTooShort    ErrorCode = "DURATION_TOO_SHORT"
	CodeDateNotInFuture     ErrorCode = "DATE_NOT_IN_FUTURE"
	CodeQuotaExceeded       ErrorCode = "QUOTA_EXCEEDED"
	CodeQuotaCheckFailed    ErrorCode = "QUOTA_CHECK_FAILED"
	CodeSlotTaken           ErrorCode = "SLOT_TAKEN"
	CodePaymentSetupFailed  ErrorCode = "PAYMENT_SETUP_FAILED"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeUnknownAction       ErrorCode = "UNKNOWN_ACTION"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error is the structured rejection returned by the orchestrator. Message is
// user-facing and names the violated rule; Details carries the constraining
// values (minimum hours, tier allowance, ...) for the API payload.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}

	// RoleMismatch distinguishes a transition rejected for the caller's role
	// (permission problem) from one rejected for the booking's state
	// (conflict problem).
	RoleMismatch bool

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("booking: %s: %s: %s", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("booking: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts a structured booking error, if err carries one
func AsError(err error) (*Error, bool) {
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr, true
	}
	return nil, false
}

func errUnauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Message: "authentication required"}
}

func errInvalidRequest(field, reason string) *Error {
	return &Error{
		Code:    CodeInvalidRequest,
		Message: fmt.Sprintf("invalid request: %s (%s)", field, reason),
		Details: map[string]interface{}{"field": field},
	}
}

func errProviderUnavailable(providerID string) *Error {
	return &Error{
		Code:    CodeProviderUnavailable,
		Message: "provider not found or not accepting bookings",
		Details: map[string]interface{}{"providerId": providerID},
	}
}

func errServiceAreaMismatch(zipCode string) *Error {
	return &Error{
		Code:    CodeServiceAreaMismatch,
		Message: fmt.Sprintf("provider does not service ZIP code %s", zipCode),
		Details: map[string]interface{}{"zipCode": zipCode},
	}
}

func errServiceTypeMismatch(serviceType string) *Error {
	return &Error{
		Code:    CodeServiceTypeMismatch,
		Message: fmt.Sprintf("provider does not offer service %q", serviceType),
		Details: map[string]interface{}{"serviceType": serviceType},
	}
}

func errDurationTooShort(minimumHours float64) *Error {
	return &Error{
		Code:    CodeDurationTooShort,
		Message: fmt.Sprintf("minimum %g hours required for this provider", minimumHours),
		Details: map[string]interface{}{"minimumHours": minimumHours},
	}
}

func errDateNotInFuture() *Error {
	return &Error{Code: CodeDateNotInFuture, Message: "service date and time must be in the future"}
}

func errQuotaExceeded(tier string, allowance int64) *Error {
	return &Error{
		Code:    CodeQuotaExceeded,
		Message: fmt.Sprintf("monthly booking limit reached for the %s plan (%d per month) - upgrade your plan to book more", tier, allowance),
		Details: map[string]interface{}{"tier": tier, "allowance": allowance},
	}
}

func errQuotaCheckFailed(cause error) *Error {
	return &Error{
		Code:    CodeQuotaCheckFailed,
		Message: "unable to verify booking allowance, please try again",
		cause:   cause,
	}
}

func errSlotTaken() *Error {
	return &Error{Code: CodeSlotTaken, Message: "this time slot is already taken"}
}

func errPaymentSetupFailed(cause error) *Error {
	return &Error{
		Code:    CodePaymentSetupFailed,
		Message: "payment setup failed, the booking was not created",
		cause:   cause,
	}
}

func errInvalidTransitionRole(action Action, role Role) *Error {
	return &Error{
		Code:         CodeInvalidTransition,
		Message:      fmt.Sprintf("role %q is not allowed to %s this booking", role, action),
		Details:      map[string]interface{}{"action": string(action), "role": string(role)},
		RoleMismatch: true,
	}
}

func errInvalidTransitionState(action Action, status string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a booking in status %q", action, status),
		Details: map[string]interface{}{"action": string(action), "status": status},
	}
}

func errUnknownAction(action string) *Error {
	return &Error{
		Code:    CodeUnknownAction,
		Message: fmt.Sprintf("unknown action %q", action),
		Details: map[string]interface{}{"action": action},
	}
}

func errNotFound() *Error {
	return &Error{Code: CodeNotFound, Message: "booking not found"}
}

func errInternal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}
