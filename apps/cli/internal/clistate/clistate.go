// Package clistate wires the client-side session core for CLI commands: the
// durable session store under the user config dir and the route-guard check
// every protected command runs first.
package clistate

import (
	"errors"
	"fmt"
	"path/filepath"

	identityservice "github.com/uninotice/platform/domains/identity/be/service"
	identitystore "github.com/uninotice/platform/domains/identity/be/store"
	"github.com/uninotice/platform/platform/go/localstate"
)

const appName = "uninotice"

// ErrSignInRequired is returned when a protected command runs without a
// session.
var ErrSignInRequired = errors.New("not signed in; run 'uninotice auth login' first")

// SessionStore opens the durable session store. An empty dir falls back to
// the per-user config directory.
func SessionStore(dir string) (*identitystore.SessionStore, error) {
	if dir == "" {
		d, err := localstate.DefaultDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = d
	}

	kv, err := localstate.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}
	return identitystore.New(kv), nil
}

// DefaultOperatorsPath is where 'auth login' looks for the operator
// credential file unless overridden.
func DefaultOperatorsPath() (string, error) {
	dir, err := localstate.DefaultDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "operators.json"), nil
}

// RequireDomain applies the route guard to the current session and returns it
// when the command may proceed.
func RequireDomain(sessions *identitystore.SessionStore, required identityservice.Domain) (identityservice.Session, error) {
	session, ok := sessions.Get()
	var current *identityservice.Session
	if ok {
		current = &session
	}

	decision := identityservice.Decide(current, required)
	switch decision.Kind {
	case identityservice.Allow:
		return session, nil
	case identityservice.RedirectToLogin:
		return identityservice.Session{}, ErrSignInRequired
	default:
		return identityservice.Session{}, fmt.Errorf("signed in as %s; this command requires %s", decision.Domain, required)
	}
}
