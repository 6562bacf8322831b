package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AdminService groups the admin-only user management endpoints. Every
// call requires an admin credential.
type AdminService struct {
	c *Client
}

// Admin returns the admin endpoint group.
func (c *Client) Admin() *AdminService {
	return &AdminService{c: c}
}

// AdminUserUpdate is the admin-side user edit body.
type AdminUserUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	UserType  string `json:"user_type,omitempty"`
}

// Users lists every registered account.
func (s *AdminService) Users(ctx context.Context) ([]User, error) {
	data, err := s.c.do(ctx, http.MethodGet, "/api/admin/users", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	var out []User
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches one account by id.
func (s *AdminService) User(ctx context.Context, id int64) (*User, error) {
	data, err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/admin/users/%d", id), nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}
	return decodeUser(data)
}

// UpdateUser applies an admin edit to an account.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, input AdminUserUpdate) (*User, error) {
	data, err := s.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", id), input, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}
	return decodeUser(data)
}

// DeleteUser removes an account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), nil, "")
	return normalizeBackendError(err)
}

// ActivateUser re-enables a deactivated account.
func (s *AdminService) ActivateUser(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/activate", id), nil, "")
	return normalizeBackendError(err)
}

// DeactivateUser disables an account without deleting it.
func (s *AdminService) DeactivateUser(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/deactivate", id), nil, "")
	return normalizeBackendError(err)
}

// USSDAccount is a phone-and-PIN account created from the USSD flow.
// It is distinct from the web User model.
type USSDAccount struct {
	ID      int64   `json:"id"`
	Phone   string  `json:"phone"`
	Role    string  `json:"role"`
	Balance float64 `json:"balance"`
}

// USSDAccounts lists the USSD-originated accounts.
func (s *AdminService) USSDAccounts(ctx context.Context) ([]USSDAccount, error) {
	data, err := s.c.do(ctx, http.MethodGet, "/api/users", nil, "")
	if err != nil {
		return nil, normalizeBackendError(err)
	}

	var out []USSDAccount
	if err := decodeJSON(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// USSDAccountInput is the create body for a USSD account.
type USSDAccountInput struct {
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
	Role  string `json:"role,omitempty"`
}

// CreateUSSDAccount registers a new phone-and-PIN account.
func (s *AdminService) CreateUSSDAccount(ctx context.Context, input USSDAccountInput) (*USSDAccount, error) {
	data, err := s.c.do(ctx, http.MethodPost, "/api/users", input, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, ValidationError(be.Message, nil)
		}
		return nil, err
	}

	out := new(USSDAccount)
	if err := decodeJSON(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupUSSDAccount resolves a USSD account by phone and PIN. The
// backend answers with the matching accounts; an empty list means the
// pair was wrong, which surfaces here as an invalid credentials error.
func (s *AdminService) LookupUSSDAccount(ctx context.Context, phone, pin string) (*USSDAccount, error) {
	q := url.Values{}
	q.Set("phone", phone)
	q.Set("pin", pin)

	data, err := s.c.do(ctx, http.MethodGet, "/api/users?"+q.Encode(), nil, "")
	if err != nil {
		if be, ok := asBackendError(err); ok {
			return nil, InvalidCredentialsError(be.Message)
		}
		return nil, err
	}

	var matches []USSDAccount
	if err := decodeJSON(data, &matches); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, InvalidCredentialsError("")
	}
	return &matches[0], nil
}
