package session

import (
	"context"
	"sync"
)

type persistMode int

const (
	persistNone persistMode = iota
	persistSave
	persistClear
)

// Manager owns the session. It is the single writer: every state change
// goes through the pure reducer and re-synchronizes the token store before
// observers are notified, so in-memory session and durable storage never
// disagree for longer than one synchronous step.
type Manager struct {
	mu           sync.Mutex
	state        State
	svc          AuthService
	store        TokenStore
	logger       Logger
	listeners    map[int]func(State)
	nextListener int
	authInFlight bool
	started      bool
	closed       bool
}

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithManagerLogger overrides the default logger.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager wires the session manager to the auth service and the token
// store. When the service supports it, the manager binds itself as the
// credential source and registers the global invalid-session teardown.
func NewManager(svc AuthService, store TokenStore, opts ...ManagerOption) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}

	m := &Manager{
		svc:       svc,
		store:     store,
		logger:    defLogger{},
		listeners: map[int]func(State){},
		state:     State{Status: StatusUninitialized},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if binder, ok := svc.(CredentialBinder); ok {
		binder.BindCredentialSource(m.Credential)
	}

	if notifier, ok := svc.(InvalidSessionNotifier); ok {
		notifier.OnSessionInvalid(m.invalidateSession)
	}

	return m
}

// Start bootstraps the session: a persisted credential moves the session
// to pending and is validated against the backend; no credential resolves
// to unauthenticated without any network call. Start runs once; later
// calls return the current snapshot.
func (m *Manager) Start(ctx context.Context) State {
	m.mu.Lock()
	if m.started || m.closed {
		st := m.snapshotLocked()
		m.mu.Unlock()
		return st
	}
	m.started = true

	credential, user, ok := m.store.Load()
	if !ok || credential == "" {
		st, ls := m.applyLocked(SignedOut(), persistNone)
		m.mu.Unlock()
		m.notify(st, ls)
		return st
	}

	st, ls := m.applyLocked(CredentialRestored(credential, user), persistNone)
	m.mu.Unlock()
	m.notify(st, ls)

	validated, err := m.svc.ValidateSession(ctx, credential)

	m.mu.Lock()
	if m.closed {
		st := m.snapshotLocked()
		m.mu.Unlock()
		return st
	}
	if err != nil {
		m.logger.Info("stored credential rejected, signing out: %v", err)
		st, ls := m.tearDownLocked()
		m.mu.Unlock()
		m.notify(st, ls)
		return st
	}

	st, ls = m.applyLocked(AuthSucceeded(validated, credential), persistSave)
	m.mu.Unlock()
	m.notify(st, ls)
	return st
}

// Current returns a snapshot safe for concurrent readers.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Credential returns the current bearer credential, or "".
func (m *Manager) Credential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Credential
}

// OnChange registers an observer called with a snapshot after every state
// change. The returned function unsubscribes.
func (m *Manager) OnChange(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Login authenticates with email and password. A second attempt issued
// while one is pending is rejected with ErrAuthPending. A failed login
// resolves to unauthenticated with LastError set and never touches a
// stored credential from a prior successful session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(func() (*AuthResult, error) {
		return m.svc.Login(ctx, email, password)
	})
}

// Register creates an account; success behaves like a successful login.
func (m *Manager) Register(ctx context.Context, data RegisterData) error {
	return m.authenticate(func() (*AuthResult, error) {
		return m.svc.Register(ctx, data)
	})
}

// FederatedLogin exchanges a Google id_token for a backend session.
func (m *Manager) FederatedLogin(ctx context.Context, providerToken string) error {
	return m.authenticate(func() (*AuthResult, error) {
		return m.svc.FederatedLogin(ctx, providerToken)
	})
}

// Logout tears down the session. The backend invalidation call is best
// effort; local state and the token store are cleared regardless, and
// calling Logout twice lands in the same place.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	credential := m.state.Credential
	m.mu.Unlock()

	if credential != "" {
		if err := m.svc.Logout(ctx); err != nil {
			m.logger.Warn("backend logout failed, clearing local session anyway: %v", err)
		}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	st, ls := m.tearDownLocked()
	m.mu.Unlock()
	m.notify(st, ls)
}

// UpdateProfile applies a partial profile mutation. On success the user
// record is replaced and re-persisted; on failure the session keeps its
// prior state and the error is surfaced on LastError.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if !m.Current().Authenticated() {
		return ErrSessionInvalid
	}

	user, err := m.svc.UpdateProfile(ctx, update)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		if IsSessionInvalid(err) {
			// the client hook already tore the session down
			m.mu.Unlock()
			return err
		}
		st, ls := m.applyLocked(ErrorNoted(ErrorMessage(err)), persistNone)
		m.mu.Unlock()
		m.notify(st, ls)
		return err
	}

	st, ls := m.applyLocked(UserUpdated(user), persistSave)
	m.mu.Unlock()
	m.notify(st, ls)
	return nil
}

// ChangePassword swaps the account password. The session itself is not
// affected either way.
func (m *Manager) ChangePassword(ctx context.Context, current, updated string) error {
	if !m.Current().Authenticated() {
		return ErrSessionInvalid
	}
	return m.svc.ChangePassword(ctx, current, updated)
}

// ClearError drops LastError ahead of a fresh attempt.
func (m *Manager) ClearError() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	st, ls := m.applyLocked(ErrorCleared(), persistNone)
	m.mu.Unlock()
	m.notify(st, ls)
}

// Close marks the manager torn down. State updates from calls still in
// flight are discarded once Close returns.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.listeners = map[int]func(State){}
}

func (m *Manager) authenticate(call func() (*AuthResult, error)) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if m.authInFlight {
		m.mu.Unlock()
		return ErrAuthPending
	}
	m.authInFlight = true
	st, ls := m.applyLocked(AuthStarted(), persistNone)
	m.mu.Unlock()
	m.notify(st, ls)

	result, err := call()

	m.mu.Lock()
	m.authInFlight = false
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		st, ls := m.applyLocked(AuthFailed(ErrorMessage(err)), persistNone)
		m.mu.Unlock()
		m.notify(st, ls)
		return err
	}

	st, ls = m.applyLocked(AuthSucceeded(result.User, result.Token), persistSave)
	m.mu.Unlock()
	m.notify(st, ls)
	return nil
}

// invalidateSession is the global 401 hook: teardown plus store clear,
// exactly once per rejection.
func (m *Manager) invalidateSession() {
	m.mu.Lock()
	if m.closed || (m.state.Status == StatusUnauthenticated && m.state.Credential == "") {
		m.mu.Unlock()
		return
	}
	st, ls := m.tearDownLocked()
	m.mu.Unlock()
	m.notify(st, ls)
}

// tearDownLocked signs out and clears the store, skipping the clear when
// the session is already empty so a rejection clears storage exactly once.
func (m *Manager) tearDownLocked() (State, []func(State)) {
	if m.state.Status == StatusUnauthenticated && m.state.Credential == "" {
		return m.applyLocked(SignedOut(), persistNone)
	}
	return m.applyLocked(SignedOut(), persistClear)
}

func (m *Manager) applyLocked(a Action, p persistMode) (State, []func(State)) {
	m.state = Reduce(m.state, a)

	switch p {
	case persistSave:
		if err := m.store.Save(m.state.Credential, m.state.User); err != nil {
			m.logger.Warn("token store save failed: %v", err)
		}
	case persistClear:
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("token store clear failed: %v", err)
		}
	}

	listeners := make([]func(State), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	return m.snapshotLocked(), listeners
}

func (m *Manager) snapshotLocked() State {
	st := m.state
	st.User = m.state.User.Clone()
	return st
}

func (m *Manager) notify(st State, listeners []func(State)) {
	for _, fn := range listeners {
		fn(st)
	}
}
