package session

// Status is the session's authentication state
type Status string

const (
	// StatusUninitialized is the zero value, so a fresh State is
	// undetermined until bootstrap resolves it
	StatusUninitialized Status = ""
	// StatusPending means a validation or login call is in flight
	StatusPending Status = "pending"
	// StatusAuthenticated means the backend accepted the credential
	StatusAuthenticated Status = "authenticated"
	// StatusUnauthenticated is the stable signed-out state
	StatusUnauthenticated Status = "unauthenticated"
)

// State is the session snapshot views read. StatusAuthenticated holds if
// and only if both User and Credential are set and the backend accepted
// the credential at least once since it was set.
type State struct {
	User       *User
	Credential string
	Status     Status
	LastError  string
}

// Authenticated reports whether the session holds an accepted credential
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil && s.Credential != ""
}

// Action is a tagged session event consumed by Reduce. Backend effects
// (network calls, store writes) never live here; the Manager owns those.
type Action interface {
	actionType() string
}

type credentialRestored struct {
	credential string
	user       *User
}

type authStarted struct{}

type authSucceeded struct {
	user       *User
	credential string
}

type authFailed struct{ message string }

type signedOut struct{}

type userUpdated struct{ user *User }

type errorNoted struct{ message string }

type errorCleared struct{}

func (credentialRestored) actionType() string { return "session.credential_restored" }
func (authStarted) actionType() string        { return "session.auth_started" }
func (authSucceeded) actionType() string      { return "session.auth_succeeded" }
func (authFailed) actionType() string         { return "session.auth_failed" }
func (signedOut) actionType() string          { return "session.signed_out" }
func (userUpdated) actionType() string        { return "session.user_updated" }
func (errorNoted) actionType() string         { return "session.error_noted" }
func (errorCleared) actionType() string       { return "session.error_cleared" }

// CredentialRestored seeds the session from persisted storage at startup;
// the session stays pending until the backend accepts the credential.
func CredentialRestored(credential string, user *User) Action {
	return credentialRestored{credential: credential, user: user}
}

// AuthStarted marks a login, registration or federated login in flight.
func AuthStarted() Action { return authStarted{} }

// AuthSucceeded installs the accepted credential and its user record.
func AuthSucceeded(user *User, credential string) Action {
	return authSucceeded{user: user, credential: credential}
}

// AuthFailed resolves a pending attempt to unauthenticated with a message.
func AuthFailed(message string) Action { return authFailed{message: message} }

// SignedOut empties the session without recording an error. Used for
// logout, missing stored credentials and backend credential rejection.
func SignedOut() Action { return signedOut{} }

// UserUpdated replaces only the user record after a profile mutation.
func UserUpdated(user *User) Action { return userUpdated{user: user} }

// ErrorNoted surfaces a failure without changing authentication status.
func ErrorNoted(message string) Action { return errorNoted{message: message} }

// ErrorCleared drops the last error ahead of a new attempt.
func ErrorCleared() Action { return errorCleared{} }

// Reduce is the pure transition function: it maps the current state and an
// action to the next state and touches nothing else.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case credentialRestored:
		s.Status = StatusPending
		s.Credential = action.credential
		s.User = action.user
		s.LastError = ""
	case authStarted:
		s.Status = StatusPending
		s.LastError = ""
	case authSucceeded:
		s.Status = StatusAuthenticated
		s.User = action.user
		s.Credential = action.credential
		s.LastError = ""
	case authFailed:
		s.Status = StatusUnauthenticated
		s.User = nil
		s.Credential = ""
		s.LastError = action.message
	case signedOut:
		s.Status = StatusUnauthenticated
		s.User = nil
		s.Credential = ""
		s.LastError = ""
	case userUpdated:
		s.User = action.user
	case errorNoted:
		s.LastError = action.message
	case errorCleared:
		s.LastError = ""
	}
	return s
}
