package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memorySessionStore is a minimal in-memory SessionStore for manager tests.
type memorySessionStore struct {
	current *Session
	sets    int
	clears  int
}

func (s *memorySessionStore) Set(session Session) error {
	s.current = &session
	s.sets++
	return nil
}

func (s *memorySessionStore) Get() (Session, bool) {
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *memorySessionStore) Clear() error {
	s.current = nil
	s.clears++
	return nil
}

type failingRevoker struct {
	calls int
}

func (r *failingRevoker) RevokeSession(ctx context.Context) error {
	r.calls++
	return errors.New("backend unavailable")
}

func newTestManager(t *testing.T, sessions SessionStore, opts ...Option) *Manager {
	t.Helper()
	operators := []OperatorCredential{
		{ID: "admin1", Email: "admin@platform.com", PasswordHash: mustHash(t, "password123")},
	}
	resolver := NewResolver(operators, &fakeDirectory{})
	return NewManager(resolver, sessions, zap.NewNop(), opts...)
}

func TestSignInInstallsSession(t *testing.T) {
	sessions := &memorySessionStore{}
	mgr := newTestManager(t, sessions)

	session, err := mgr.SignIn(context.Background(), "admin@platform.com", "password123", DomainPlatformOperator)
	require.NoError(t, err)
	require.Equal(t, "admin1", session.ID)

	current, ok := mgr.Current()
	require.True(t, ok)
	require.Equal(t, session, current)
}

func TestSignInFailureLeavesStoreUntouched(t *testing.T) {
	sessions := &memorySessionStore{}
	mgr := newTestManager(t, sessions)

	_, err := mgr.SignIn(context.Background(), "admin@platform.com", "wrong", DomainPlatformOperator)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, sessions.sets)

	_, ok := mgr.Current()
	require.False(t, ok)
}

func TestSignInReplacesPriorSession(t *testing.T) {
	sessions := &memorySessionStore{}
	sessions.current = &Session{Identity: Identity{ID: "stale", Domain: DomainTenantUser}}
	mgr := newTestManager(t, sessions)

	session, err := mgr.SignIn(context.Background(), "admin@platform.com", "password123", DomainPlatformOperator)
	require.NoError(t, err)

	current, ok := mgr.Current()
	require.True(t, ok)
	require.Equal(t, session.ID, current.ID)
	require.Equal(t, DomainPlatformOperator, current.Domain)
}

// Sign-out never fails from the caller's perspective, even when backend
// revocation does, and calling it twice leaves the same observable state.
func TestSignOutIdempotentAndSwallowsRevocationError(t *testing.T) {
	sessions := &memorySessionStore{}
	revoker := &failingRevoker{}
	mgr := newTestManager(t, sessions, WithRevoker(revoker))

	_, err := mgr.SignIn(context.Background(), "admin@platform.com", "password123", DomainPlatformOperator)
	require.NoError(t, err)

	mgr.SignOut(context.Background())
	_, ok := mgr.Current()
	require.False(t, ok)

	mgr.SignOut(context.Background())
	_, ok = mgr.Current()
	require.False(t, ok)

	require.Equal(t, 2, sessions.clears)
	require.Equal(t, 2, revoker.calls)
}
