package service

import (
	"context"

	"go.uber.org/zap"
)

// SessionRevoker performs best-effort revocation of any backend-side session
// at sign-out. Revocation failures are logged, never surfaced.
type SessionRevoker interface {
	RevokeSession(ctx context.Context) error
}

// Manager orchestrates sign-in and sign-out. It owns the session exclusively;
// everything else only reads it through the store.
type Manager struct {
	resolver *Resolver
	sessions SessionStore
	revoker  SessionRevoker
	logger   *zap.Logger
}

// Option configures optional Manager collaborators.
type Option func(*Manager)

// WithRevoker attaches a backend session revoker used at sign-out.
func WithRevoker(r SessionRevoker) Option {
	return func(m *Manager) {
		m.revoker = r
	}
}

// NewManager constructs the auth session manager.
func NewManager(resolver *Resolver, sessions SessionStore, logger *zap.Logger, opts ...Option) *Manager {
	if resolver == nil {
		panic("credential resolver is required")
	}
	if sessions == nil {
		panic("session store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{resolver: resolver, sessions: sessions, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn resolves the credentials and, on success, installs the new session,
// replacing any prior one. On failure the store is untouched and the resolver
// error propagates verbatim. There are no retries; the caller resubmits.
func (m *Manager) SignIn(ctx context.Context, email, secret string, domain Domain) (Session, error) {
	identity, err := m.resolver.Resolve(ctx, email, secret, domain)
	if err != nil {
		return Session{}, err
	}

	session := Session{Identity: identity}
	if err := m.sessions.Set(session); err != nil {
		return Session{}, err
	}

	m.logger.Info("signed in",
		zap.String("email", identity.Email),
		zap.String("domain", string(identity.Domain)),
	)
	return session, nil
}

// SignOut clears the session first, so the client-visible state is
// unauthenticated even if backend revocation fails, then revokes best-effort.
// It never returns an error and is safe to call repeatedly.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.sessions.Clear(); err != nil {
		m.logger.Warn("clear session store", zap.Error(err))
	}

	if m.revoker == nil {
		return
	}
	if err := m.revoker.RevokeSession(ctx); err != nil {
		m.logger.Warn("revoke backend session", zap.Error(err))
	}
}

// Current returns the live session, restoring it from durable storage when
// the process has just started.
func (m *Manager) Current() (Session, bool) {
	return m.sessions.Get()
}
