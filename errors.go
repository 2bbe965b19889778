package public

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginRequired indicates an authenticated operation was attempted
	// without a session. Call Login first.
	ErrLoginRequired = errors.New("login required")

	// ErrAuthenticationFailed indicates the upstream rejected the credentials.
	ErrAuthenticationFailed = errors.New("login failed, check credentials")

	// ErrTwoFactorFailed indicates the 2FA code was rejected.
	ErrTwoFactorFailed = errors.New("two-factor verification failed, check credentials and code")

	// ErrRefreshFailed indicates the session could not be exchanged for a new
	// token; a full login is required.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// TwoFactorRequiredError is returned by Login when the upstream demands a 2FA
// code and the request did not allow waiting for one. The code is delivered
// out-of-band to the masked phone number.
type TwoFactorRequiredError struct {
	MaskedPhoneNumber string
}

func (e *TwoFactorRequiredError) Error() string {
	return fmt.Sprintf("2FA required: code sent to phone number %s", e.MaskedPhoneNumber)
}

// ValidationError is returned before any network call when a request carries
// an out-of-enum value or is internally inconsistent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// APIError is a non-success HTTP response from the upstream, carrying the
// status code and the (truncated) response body for diagnosis.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Op, e.Status, e.Body)
}

// truncateBody keeps error messages readable when the upstream returns an
// HTML error page.
func truncateBody(body string) string {
	if len(body) > 500 {
		return body[:500] + "..."
	}
	return body
}
