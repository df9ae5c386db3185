package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors carry the exact message the presentation layer renders, so
// their text is user-facing and deliberately stable.
var (
	// ErrInvalidCredentials is returned for every login failure, whether the
	// email is malformed, unknown, or the password is wrong. One message for
	// all cases defeats account enumeration.
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	// ErrRegistrationFailed collapses provider/store failures during sign-up.
	ErrRegistrationFailed = errors.New("Registration failed.")

	// ErrInvalidEmail is returned by register, where a specific message is
	// safe because no account exists yet to enumerate.
	ErrInvalidEmail = errors.New("Please enter a valid email address.")
	// Password strength errors name the missing requirement category.
	ErrPasswordTooShort  = errors.New("Password must be at least 8 characters long.")
	ErrPasswordNoUpper   = errors.New("Password must contain an uppercase letter.")
	ErrPasswordNoLower   = errors.New("Password must contain a lowercase letter.")
	ErrPasswordNoDigit   = errors.New("Password must contain a number.")
	ErrPasswordNoSpecial = errors.New("Password must contain a special character.")

	// Poll content validation errors, one per rule.
	ErrQuestionRequired = errors.New("Question is required.")
	ErrTooFewOptions    = errors.New("Please provide at least 2 options.")
	ErrQuestionTooLong  = errors.New("Question must be 255 characters or less.")
	ErrTooManyOptions   = errors.New("A poll can have at most 10 options.")
	ErrOptionTooLong    = errors.New("Each option must be 100 characters or less.")

	// ErrPollNotFound covers both missing polls and polls the caller may not
	// see; the two cases are indistinguishable to avoid existence leaks.
	ErrPollNotFound = errors.New("Poll not found.")
	// ErrUnauthorized is returned when an operation requires the admin role.
	ErrUnauthorized = errors.New("Unauthorized access.")
	// ErrAlreadyVoted is returned on a duplicate authenticated vote.
	ErrAlreadyVoted = errors.New("You have already voted on this poll.")
	// ErrInvalidOption is returned when a vote's option index is out of range.
	ErrInvalidOption = errors.New("Invalid option selected.")
)

// AuthRequiredError is returned when an operation needs an authenticated
// session, carrying the action name for the message.
type AuthRequiredError struct {
	Action string
}

func (e *AuthRequiredError) Error() string {
	return "You must be logged in to " + e.Action + "."
}

// NewAuthRequired builds an AuthRequiredError for the given action, e.g.
// "create a poll".
func NewAuthRequired(action string) error {
	return &AuthRequiredError{Action: action}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsValidation reports whether err is an input-validation failure.
func IsValidation(err error) bool {
	switch err {
	case ErrInvalidEmail, ErrPasswordTooShort, ErrPasswordNoUpper,
		ErrPasswordNoLower, ErrPasswordNoDigit, ErrPasswordNoSpecial,
		ErrQuestionRequired, ErrTooFewOptions, ErrQuestionTooLong,
		ErrTooManyOptions, ErrOptionTooLong, ErrInvalidOption:
		return true
	}
	return false
}

// MapErrorToHTTP maps domain errors to HTTP errors. Messages pass through
// verbatim; the presentation layer renders them as-is.
func MapErrorToHTTP(err error) *HTTPError {
	var authReq *AuthRequiredError
	if errors.As(err, &authReq) {
		return NewHTTPError(http.StatusUnauthorized, authReq.Error(), "AUTH_REQUIRED")
	}

	switch {
	case err == ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case err == ErrRegistrationFailed:
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "REGISTRATION_FAILED")
	case err == ErrUnauthorized:
		return NewHTTPError(http.StatusForbidden, err.Error(), "UNAUTHORIZED")
	case err == ErrPollNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "POLL_NOT_FOUND")
	case err == ErrAlreadyVoted:
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_VOTED")
	case IsValidation(err):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
