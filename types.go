package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AuthService holds the backend auth capabilities the session manager drives.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, data RegisterData) (*AuthResult, error)
	FederatedLogin(ctx context.Context, providerToken string) (*AuthResult, error)
	ValidateSession(ctx context.Context, credential string) (*User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
	ChangePassword(ctx context.Context, current, updated string) error
	Logout(ctx context.Context) error
}

// CredentialBinder is implemented by clients that can pull the current
// bearer credential from the session manager on every outbound request.
type CredentialBinder interface {
	BindCredentialSource(fn func() string)
}

// InvalidSessionNotifier is implemented by clients that surface the global
// 401 contract: any credentialed response with an authorization-failure
// status fires the registered hooks.
type InvalidSessionNotifier interface {
	OnSessionInvalid(fn func())
}

// TokenStore persists the bearer credential and the last known user record
// across application runs. Storage trouble reads as "absent", never as an
// error the caller has to branch on.
type TokenStore interface {
	Save(credential string, user *User) error
	Load() (credential string, user *User, ok bool)
	Clear() error
}

// DefaultLogger returns the stdout logger used when nothing better is
// configured.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
