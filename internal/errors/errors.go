package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrValidation     = errors.New("validation error")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrTripNotAvailable     = errors.New("trip is no longer available")
	ErrNotEnoughSeats       = errors.New("not enough free seats")
	ErrPendingBookingExists = errors.New("pending booking already exists")
	ErrAlreadyReviewed      = errors.New("already reviewed")
	ErrInvalidTransition    = errors.New("invalid state transition")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Validation(message string) *APIError {
	return NewAPIError("validation_error", message, http.StatusBadRequest)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

func TripNotAvailable() *APIError {
	return NewAPIError("trip_not_available", "this trip is no longer available", http.StatusConflict)
}

func NotEnoughSeats(free int) *APIError {
	return NewAPIError("not_enough_seats", fmt.Sprintf("not enough free seats, %d available", free), http.StatusConflict)
}

func PendingBookingExists() *APIError {
	return NewAPIError("pending_booking_exists", "you already have a pending request for this announcement", http.StatusConflict)
}

func AlreadyReviewed() *APIError {
	return NewAPIError("already_reviewed", "you have already reviewed this ride", http.StatusConflict)
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_transition", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusBadRequest)
}
