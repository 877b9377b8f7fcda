package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeInvalidCredentials     = "invalid_credentials"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeEmailTaken    = "email_taken"

	// Account errors
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeRefreshFailed      = "refresh_failed"
	ErrCodeSelfModification   = "self_modification_forbidden"

	// Quiz workflow errors
	ErrCodeEmptyCategory   = "empty_category"
	ErrCodeNoActiveAttempt = "no_active_attempt"
	ErrCodeInvalidPosition = "invalid_position"
	ErrCodeSubmitFailed    = "submit_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
