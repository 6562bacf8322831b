package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	session "github.com/ussdautopay/go-session"
)

func TestUserTypeLevelOrdering(t *testing.T) {
	assert.Less(t, session.UserTypeGuest.Level(), session.UserTypeUser.Level())
	assert.Less(t, session.UserTypeUser.Level(), session.UserTypeSubscribed.Level())
	assert.Less(t, session.UserTypeSubscribed.Level(), session.UserTypeAdmin.Level())
}

func TestUserTypeUnknownLevel(t *testing.T) {
	assert.Equal(t, -1, session.UserType("superuser").Level())
	assert.False(t, session.UserType("superuser").IsValid())
}

func TestUserTypeAtLeast(t *testing.T) {
	tests := []struct {
		tier     session.UserType
		required session.UserType
		want     bool
	}{
		{session.UserTypeGuest, session.UserTypeGuest, true},
		{session.UserTypeGuest, session.UserTypeUser, false},
		{session.UserTypeUser, session.UserTypeUser, true},
		{session.UserTypeUser, session.UserTypeSubscribed, false},
		{session.UserTypeSubscribed, session.UserTypeUser, true},
		{session.UserTypeAdmin, session.UserTypeGuest, true},
		{session.UserTypeAdmin, session.UserTypeAdmin, true},
		{session.UserType("superuser"), session.UserTypeGuest, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.tier.AtLeast(tc.required),
			"%s at least %s", tc.tier, tc.required)
	}
}

func TestParseUserType(t *testing.T) {
	for _, tier := range session.AllUserTypes() {
		got, ok := session.ParseUserType(string(tier))
		assert.True(t, ok)
		assert.Equal(t, tier, got)
	}

	_, ok := session.ParseUserType("root")
	assert.False(t, ok)
}

func TestUserTypeDefaultsToGuest(t *testing.T) {
	u := &session.User{}
	assert.Equal(t, session.UserTypeGuest, u.Type())

	var nilUser *session.User
	assert.Equal(t, session.UserTypeGuest, nilUser.Type())
}
