package utils

// Application Constants
const (
	AppName    = "LuxeDrive"
	AppVersion = "1.0.0"

	DefaultCurrency = "USD"
	DateLayout      = "2006-01-02"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrInvalidToken       = "invalid token"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "resource was modified concurrently, retry"
	ErrValidationFailed   = "validation failed"
	ErrEmptyCart          = "cart is empty"
	ErrPaymentDeclined    = "payment declined"
	ErrPaymentTimedOut    = "payment timed out"
	ErrTooManyRequests    = "too many requests"
)

// Error Codes
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeEmptyCart       = "EMPTY_CART"
	CodeConflict        = "CONFLICT"
	CodePaymentDeclined = "PAYMENT_DECLINED"
	CodePaymentTimeout  = "PAYMENT_TIMEOUT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

// Gin context keys set by the auth middleware.
const (
	ContextKeyUser      = "user"
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"
)

// Event Types
const (
	EventUserSignedUp     = "user_signed_up"
	EventUserLogin        = "user_login"
	EventUserLogout       = "user_logout"
	EventBookingCreated   = "booking_created"
	EventBookingStatus    = "booking_status_changed"
	EventPaymentAttempt   = "payment_attempt"
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentDeclined  = "payment_declined"
	EventPaymentTimedOut  = "payment_timed_out"
	EventVehicleCreated   = "vehicle_created"
	EventVehicleUpdated   = "vehicle_updated"
	EventVehicleDeleted   = "vehicle_deleted"
)
