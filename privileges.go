package session

// UserType is the user's access tier
type UserType string

const (
	// UserTypeGuest is a visitor without an account (i.e. browse only)
	UserTypeGuest UserType = "guest"
	// UserTypeUser is a registered account without an active subscription
	UserTypeUser UserType = "user"
	// UserTypeSubscribed is a registered account with an active subscription
	UserTypeSubscribed UserType = "subscribed"
	// UserTypeAdmin is a back office operator
	UserTypeAdmin UserType = "admin"
)

// IsValid checks if the type is one of the predefined tiers
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeGuest, UserTypeUser, UserTypeSubscribed, UserTypeAdmin:
		return true
	default:
		return false
	}
}

// Level returns the tier's position in the total order
// guest(0) < user(1) < subscribed(2) < admin(3). Unknown tiers get -1 so
// they never satisfy any requirement.
func (t UserType) Level() int {
	switch t {
	case UserTypeGuest:
		return 0
	case UserTypeUser:
		return 1
	case UserTypeSubscribed:
		return 2
	case UserTypeAdmin:
		return 3
	default:
		return -1
	}
}

// AtLeast checks if this tier meets the minimum required tier
func (t UserType) AtLeast(min UserType) bool {
	if !t.IsValid() || !min.IsValid() {
		return false
	}
	return t.Level() >= min.Level()
}

// AllUserTypes returns all predefined tiers in hierarchical order
func AllUserTypes() []UserType {
	return []UserType{
		UserTypeGuest,
		UserTypeUser,
		UserTypeSubscribed,
		UserTypeAdmin,
	}
}

// ParseUserType safely parses a string into a UserType
func ParseUserType(s string) (UserType, bool) {
	t := UserType(s)
	return t, t.IsValid()
}
