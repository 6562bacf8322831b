package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	session "github.com/ussdautopay/go-session"
)

// MockAuthService implements session.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*session.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.AuthResult), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, data session.RegisterData) (*session.AuthResult, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.AuthResult), args.Error(1)
}

func (m *MockAuthService) FederatedLogin(ctx context.Context, providerToken string) (*session.AuthResult, error) {
	args := m.Called(ctx, providerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.AuthResult), args.Error(1)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, credential string) (*session.User, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, update session.ProfileUpdate) (*session.User, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.User), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, current, updated string) error {
	args := m.Called(ctx, current, updated)
	return args.Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBindingService also implements CredentialBinder and
// InvalidSessionNotifier, capturing what the manager wires in.
type MockBindingService struct {
	MockAuthService
	CredentialSource func() string
	Invalidate       func()
}

func (m *MockBindingService) BindCredentialSource(fn func() string) {
	m.CredentialSource = fn
}

func (m *MockBindingService) OnSessionInvalid(fn func()) {
	m.Invalidate = fn
}

// CountingStore wraps a store and counts writes.
type CountingStore struct {
	session.TokenStore
	Saves  int
	Clears int
}

func NewCountingStore() *CountingStore {
	return &CountingStore{TokenStore: session.NewMemoryStore()}
}

func (s *CountingStore) Save(credential string, user *session.User) error {
	s.Saves++
	return s.TokenStore.Save(credential, user)
}

func (s *CountingStore) Clear() error {
	s.Clears++
	return s.TokenStore.Clear()
}
