package discussx

import "github.com/cockroachdb/errors"

// ErrorCode represents specific error codes for discussion search operations.
type ErrorCode int

const (
	// ErrCodeEmptyQuery is returned when an empty query is provided.
	ErrCodeEmptyQuery ErrorCode = iota + 1000

	// ErrCodeInvalidOption is returned when an invalid option is provided.
	ErrCodeInvalidOption

	// ErrCodeTimeout is returned when a search operation times out.
	ErrCodeTimeout

	// ErrCodeCanceled is returned when a search operation is canceled.
	ErrCodeCanceled

	// ErrCodeBackendUnavailable is returned when the search backend is unavailable.
	ErrCodeBackendUnavailable

	// ErrCodeUnauthorized is returned when the backend rejects the credentials.
	ErrCodeUnauthorized

	// ErrCodeMissingCredentials is returned when required credentials are absent.
	ErrCodeMissingCredentials

	// ErrCodeCacheUnavailable is returned when the result cache cannot be read or written.
	ErrCodeCacheUnavailable
)

// String returns the human-readable string representation of the error code.
// This implements the fmt.Stringer interface.
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeEmptyQuery:
		return "empty query"
	case ErrCodeInvalidOption:
		return "invalid option"
	case ErrCodeTimeout:
		return "operation timed out"
	case ErrCodeCanceled:
		return "operation canceled"
	case ErrCodeBackendUnavailable:
		return "backend unavailable"
	case ErrCodeUnauthorized:
		return "unauthorized"
	case ErrCodeMissingCredentials:
		return "missing credentials"
	case ErrCodeCacheUnavailable:
		return "cache unavailable"
	default:
		return "unknown error"
	}
}

// newErrorWithCode creates a new error with a code and message.
func newErrorWithCode(code ErrorCode, msg string) error {
	err := errors.New(msg)
	return errors.WithSecondaryError(err, errors.Newf("code: %d", int(code)))
}

// Common errors that can be returned by discussion operations.
var (
	// ErrEmptyQuery is returned when an empty query is provided.
	ErrEmptyQuery = newErrorWithCode(ErrCodeEmptyQuery, "discussx: empty query")

	// ErrInvalidOption is returned when an invalid option is provided.
	ErrInvalidOption = newErrorWithCode(ErrCodeInvalidOption, "discussx: invalid option")

	// ErrTimeout is returned when a search operation times out.
	ErrTimeout = newErrorWithCode(ErrCodeTimeout, "discussx: operation timed out")

	// ErrCanceled is returned when a search operation is canceled.
	ErrCanceled = newErrorWithCode(ErrCodeCanceled, "discussx: operation canceled")

	// ErrBackendUnavailable is returned when the search backend is unavailable.
	ErrBackendUnavailable = newErrorWithCode(ErrCodeBackendUnavailable, "discussx: backend unavailable")

	// ErrUnauthorized is returned when the backend rejects a request after a token refresh.
	ErrUnauthorized = newErrorWithCode(ErrCodeUnauthorized, "discussx: unauthorized")

	// ErrMissingCredentials is returned when an authenticated backend lacks a required credential.
	ErrMissingCredentials = newErrorWithCode(ErrCodeMissingCredentials, "discussx: missing credentials")

	// ErrCacheUnavailable is returned when the result cache fails.
	ErrCacheUnavailable = newErrorWithCode(ErrCodeCacheUnavailable, "discussx: cache unavailable")
)
