package session

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type federatedLoginRequest struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login exchanges email and password for a session. A backend rejection
// maps to InvalidCredentials with the backend's message preserved.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, InvalidCredentialsError(be.Message)
		}
		return nil, err
	}

	out := new(AuthResult)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an account and logs it in. Field level problems come
// back as a ValidationError.
func (c *Client) Register(ctx context.Context, req RegisterData) (*AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/auth/register", req, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}

	out := new(AuthResult)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FederatedLogin exchanges a Google id_token for a session.
func (c *Client) FederatedLogin(ctx context.Context, providerToken string) (*AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/auth/google", federatedLoginRequest{Token: providerToken}, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, FederatedAuthError(be.Message)
		}
		return nil, err
	}

	out := new(AuthResult)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateSession asks the backend whether the credential is still good
// and returns the fresh user record. A rejection reports ErrSessionInvalid
// and fires the invalid-session hooks; the caller clears the token store.
func (c *Client) ValidateSession(ctx context.Context, credential string) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, credential)
	if err != nil {
		return nil, normalizeBackendError(err)
	}
	return decodeUser(data)
}

// Profile fetches the current user with the bound credential.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}
	return decodeUser(data)
}

// UpdateProfile sends a partial profile mutation and returns the updated
// record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/auth/profile", update, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, UpdateRejectedError(be.Message)
		}
		return nil, err
	}
	return decodeUser(data)
}

// ChangePassword swaps the account password; a wrong current password
// comes back as PasswordRejected.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/change-password", changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     updated,
	}, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return PasswordRejectedError(be.Message)
		}
		return err
	}
	return nil
}

// Refresh asks the backend for a fresh credential. The session manager
// does not call this; it exists for parity with the backend surface.
func (c *Client) Refresh(ctx context.Context) (*AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	out := new(AuthResult)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout asks the backend to invalidate the session. Callers treat any
// outcome as success for local teardown purposes.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, "")
	return normalizeBackendError(err)
}
