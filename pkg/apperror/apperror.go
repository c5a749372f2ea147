// Package apperror defines the application error taxonomy: every domain
// failure carries a stable machine-readable code, an HTTP status, and an
// optional details payload. Bilingual (ar/en) messages live in a single
// catalog keyed by code and are resolved at presentation time, so business
// logic never carries locale strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// Not found
	CodeServiceNotFound     Code = "SERVICE_NOT_FOUND"
	CodeClinicNotFound      Code = "CLINIC_NOT_FOUND"
	CodeTargetClinicInvalid Code = "TARGET_CLINIC_NOT_FOUND"
	CodeAppointmentNotFound Code = "APPOINTMENT_NOT_FOUND"
	CodeUserNotFound        Code = "USER_NOT_FOUND"

	// Validation
	CodeValidationFailed       Code = "VALIDATION_FAILED"
	CodeServiceHasNoSessions   Code = "SERVICE_HAS_NO_SESSIONS"
	CodeInvalidSessionID       Code = "INVALID_SESSION_ID"
	CodeMaxSessionsExceeded    Code = "MAX_SESSIONS_EXCEEDED"
	CodeDuplicateSessionOrder  Code = "DUPLICATE_SESSION_ORDER"
	CodeInvalidSessionOrder    Code = "INVALID_SESSION_ORDER"
	CodeEmptySessionName       Code = "EMPTY_SESSION_NAME"
	CodeInvalidSessionDuration Code = "INVALID_SESSION_DURATION"
	CodeInvalidClinicStatus    Code = "INVALID_CLINIC_STATUS"
	CodeInvalidCredentials     Code = "INVALID_CREDENTIALS"

	// Conflict
	CodeDuplicateSessionBooking    Code = "DUPLICATE_SESSION_BOOKING"
	CodeCompletedSessionRebooking  Code = "COMPLETED_SESSION_REBOOKING"
	CodeBatchBookingFailed         Code = "BATCH_BOOKING_FAILED"
	CodeSessionHasActiveBookings   Code = "CANNOT_REMOVE_SESSION_WITH_ACTIVE_APPOINTMENTS"
	CodeServiceHasActiveBookings   Code = "SERVICE_HAS_ACTIVE_APPOINTMENTS"
	CodeClinicRequiresTransfer     Code = "CLINIC_REQUIRES_TRANSFER"
	CodeInvalidStatusTransition    Code = "INVALID_STATUS_TRANSITION"
	CodeDuplicateActiveAppointment Code = "DUPLICATE_ACTIVE_APPOINTMENT"
)

// Error is the single domain error type surfaced to HTTP handlers.
type Error struct {
	Code    Code
	Status  int
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two *Error values by code, so sentinel-style comparisons
// (errors.Is(err, apperror.New(CodeServiceNotFound))) work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy carrying a structured details payload.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Status: e.Status, Details: details, cause: e.cause}
}

// Wrap returns a copy carrying an underlying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Status: e.Status, Details: e.Details, cause: cause}
}

func New(code Code) *Error {
	return &Error{Code: code, Status: statusFor(code)}
}

func NewWithDetails(code Code, details any) *Error {
	return &Error{Code: code, Status: statusFor(code), Details: details}
}

// CodeOf extracts the error code, or "" if err is not a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// AsError extracts a domain error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func statusFor(code Code) int {
	switch code {
	case CodeServiceNotFound, CodeClinicNotFound, CodeTargetClinicInvalid,
		CodeAppointmentNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeDuplicateSessionBooking, CodeCompletedSessionRebooking,
		CodeBatchBookingFailed, CodeSessionHasActiveBookings,
		CodeServiceHasActiveBookings, CodeClinicRequiresTransfer,
		CodeInvalidStatusTransition, CodeDuplicateActiveAppointment:
		return http.StatusConflict
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
