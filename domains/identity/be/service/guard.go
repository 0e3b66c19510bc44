package service

// DecisionKind enumerates the three possible route guard outcomes.
type DecisionKind int

const (
	// Allow lets the navigation proceed.
	Allow DecisionKind = iota
	// RedirectToLogin sends an unauthenticated caller to the login page of
	// the required domain.
	RedirectToLogin
	// RedirectToOwnDashboard sends an authenticated caller of the wrong
	// domain back to their own dashboard, never to the requested page.
	RedirectToOwnDashboard
)

// Decision is the outcome of a guard check. Domain carries the required
// domain for RedirectToLogin and the session's domain for
// RedirectToOwnDashboard; it is unset for Allow.
type Decision struct {
	Kind   DecisionKind
	Domain Domain
}

// Decide maps (current session, required domain) to a navigation decision.
// It is pure and reentrant: no state, no side effects. Evaluate it on every
// protected-page entry.
func Decide(session *Session, required Domain) Decision {
	if session == nil {
		return Decision{Kind: RedirectToLogin, Domain: required}
	}
	if session.Domain != required {
		return Decision{Kind: RedirectToOwnDashboard, Domain: session.Domain}
	}
	return Decision{Kind: Allow}
}
