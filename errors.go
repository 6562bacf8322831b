package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeValidation         = "VALIDATION_FAILED"
	textCodeFederatedAuth      = "FEDERATED_AUTH_FAILED"
	textCodeSessionInvalid     = "SESSION_INVALID"
	textCodeUpdateRejected     = "UPDATE_REJECTED"
	textCodePasswordRejected   = "PASSWORD_REJECTED"
	textCodeNetwork            = "BACKEND_UNREACHABLE"
	textCodeAuthPending        = "AUTH_ATTEMPT_PENDING"
	textCodeSessionClosed      = "SESSION_MANAGER_CLOSED"
)

// ErrSessionInvalid is returned when the backend rejects the current
// credential; callers must clear the token store and return to the entry
// point.
var ErrSessionInvalid = goerrors.New("session is no longer valid", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthPending is returned when a second login, registration or
// federated login is issued while one is still in flight.
var ErrAuthPending = goerrors.New("another authentication attempt is in flight", goerrors.CategoryConflict).
	WithTextCode(textCodeAuthPending).
	WithCode(goerrors.CodeConflict)

// ErrManagerClosed is returned for operations issued after teardown.
var ErrManagerClosed = goerrors.New("session manager is closed", goerrors.CategoryOperation).
	WithTextCode(textCodeSessionClosed)

// SessionInvalidError reports a backend credential rejection, tagged with
// the request that observed it. Each call builds a fresh error; the
// ErrSessionInvalid sentinel is never decorated, so concurrent rejections
// stay independent. Matches IsSessionInvalid.
func SessionInvalidError(method, path string) *goerrors.Error {
	return goerrors.New("session is no longer valid", goerrors.CategoryAuth).
		WithTextCode(textCodeSessionInvalid).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
}

// InvalidCredentialsError builds the login rejection, keeping the
// backend's human readable message when it sent one.
func InvalidCredentialsError(message string) *goerrors.Error {
	if message == "" {
		message = "Login failed"
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(textCodeInvalidCredentials).
		WithCode(goerrors.CodeUnauthorized)
}

// ValidationError carries field level messages for a rejected form.
func ValidationError(message string, fields map[string]string) *goerrors.Error {
	if message == "" {
		message = "Validation failed"
	}
	err := goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(textCodeValidation).
		WithCode(goerrors.CodeBadRequest)
	if len(fields) > 0 {
		meta := make(map[string]any, len(fields))
		for k, v := range fields {
			meta[k] = v
		}
		err = err.WithMetadata(map[string]any{"fields": meta})
	}
	return err
}

// FederatedAuthError wraps a failed Google sign in exchange.
func FederatedAuthError(message string) *goerrors.Error {
	if message == "" {
		message = "Google login failed"
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(textCodeFederatedAuth).
		WithCode(goerrors.CodeUnauthorized)
}

// UpdateRejectedError wraps a refused profile mutation.
func UpdateRejectedError(message string) *goerrors.Error {
	if message == "" {
		message = "Profile update failed"
	}
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(textCodeUpdateRejected).
		WithCode(goerrors.CodeBadRequest)
}

// PasswordRejectedError wraps a refused password change, typically a wrong
// current password.
func PasswordRejectedError(message string) *goerrors.Error {
	if message == "" {
		message = "Password change failed"
	}
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(textCodePasswordRejected).
		WithCode(goerrors.CodeBadRequest)
}

// NetworkError wraps a transport level failure. It is never mapped to a
// session teardown: an unreachable backend says nothing about the
// credential.
func NetworkError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to reach the autopay backend").
		WithTextCode(textCodeNetwork)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsSessionInvalid reports whether the backend rejected the credential.
func IsSessionInvalid(err error) bool {
	return hasTextCode(err, textCodeSessionInvalid)
}

// IsInvalidCredentials reports a rejected login attempt.
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, textCodeInvalidCredentials)
}

// IsValidationError reports a field level rejection.
func IsValidationError(err error) bool {
	return hasTextCode(err, textCodeValidation)
}

// IsNetworkError reports a transport level failure.
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetwork)
}

// IsPasswordRejected reports a refused password change.
func IsPasswordRejected(err error) bool {
	return hasTextCode(err, textCodePasswordRejected)
}

// IsUpdateRejected reports a refused profile mutation.
func IsUpdateRejected(err error) bool {
	return hasTextCode(err, textCodeUpdateRejected)
}

// ValidationFields extracts the per field messages from a validation error,
// or nil when the error carries none.
func ValidationFields(err error) map[string]string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Metadata == nil {
		return nil
	}
	raw, ok := richErr.Metadata["fields"]
	if !ok {
		return nil
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// ErrorMessage returns the human readable message carried by err, keeping
// the rich message when the error came from the taxonomy above.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}
