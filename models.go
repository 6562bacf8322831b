package session

import (
	"strings"
	"time"
)

// User is the profile record mirrored from the backend. The backend is the
// source of truth; this copy is stale after any mutating call until the
// next profile fetch replaces it.
type User struct {
	ID            int64      `json:"id,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Username      string     `json:"username,omitempty"`
	UserType      UserType   `json:"user_type,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	EmailVerified bool       `json:"email_verified,omitempty"`
	PhoneVerified bool       `json:"phone_verified,omitempty"`
	IsActive      bool       `json:"is_active,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Type returns the user's tier, defaulting to guest when the backend sent
// none or sent something this client does not know.
func (u *User) Type() UserType {
	if u == nil {
		return UserTypeGuest
	}
	if t, ok := ParseUserType(string(u.UserType)); ok {
		return t
	}
	return UserTypeGuest
}

// FullName joins first and last name, skipping empty parts
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	parts := []string{}
	if u.FirstName != "" {
		parts = append(parts, u.FirstName)
	}
	if u.LastName != "" {
		parts = append(parts, u.LastName)
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy so readers never share the manager's record
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		clone.LastLogin = &t
	}
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		clone.CreatedAt = &t
	}
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		clone.UpdatedAt = &t
	}
	return &clone
}

// AuthResult is the backend response shape for login, registration and
// federated login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// RegisterData is the registration request body
type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileUpdate carries a partial profile mutation; nil fields are left
// untouched by the backend.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.Username == nil && p.AvatarURL == nil
}

// Influencer is the public listing record fans subscribe to
type Influencer struct {
	ID        int64      `json:"id,omitempty"`
	UserID    int64      `json:"user_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	Shortcode string     `json:"ussd_shortcode,omitempty"`
	Received  int64      `json:"received,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Subscription is a fan's recurring payment to an influencer
type Subscription struct {
	ID           int64      `json:"id,omitempty"`
	InfluencerID int64      `json:"influencer_id,omitempty"`
	FanPhone     string     `json:"fan_phone,omitempty"`
	Amount       int64      `json:"amount,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	IsActive     bool       `json:"is_active,omitempty"`
	NextChargeAt *time.Time `json:"next_charge_at,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
