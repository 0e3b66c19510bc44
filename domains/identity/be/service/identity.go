package service

import "context"

// Domain identifies which of the two disjoint login populations an identity
// belongs to. The two domains are structurally different: operators come from
// a fixed out-of-band credential list, tenant users from the tenant datastore.
type Domain string

const (
	DomainPlatformOperator Domain = "platform_operator"
	DomainTenantUser       Domain = "tenant_user"
)

// Valid reports whether the string names a known identity domain.
func (d Domain) Valid() bool {
	return d == DomainPlatformOperator || d == DomainTenantUser
}

// Identity is a normalized identity record produced by credential resolution.
type Identity struct {
	ID       string
	Email    string
	Domain   Domain
	TenantID string // empty for platform operators
	Profile  map[string]string
}

// Session is the ephemeral projection of exactly one signed-in Identity.
// At most one session is live per process; a new sign-in replaces it.
type Session struct {
	Identity
}

// SessionStore holds the current session in memory and mirrors it to durable
// local storage so it survives process restarts.
type SessionStore interface {
	Set(s Session) error
	Get() (Session, bool)
	Clear() error
}

// DirectoryUser is the tenant-datastore view of an end user, as needed by
// credential resolution.
type DirectoryUser struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	StudentID    string
	Department   string
	YearLevel    string
}

// Directory is the read-only tenant/user lookup collaborator for the
// resolver. Implementations must return ErrUserNotFound when no active user
// matches the email; inactive and suspended accounts are invisible here.
type Directory interface {
	FindActiveUserByEmail(ctx context.Context, email string) (DirectoryUser, error)
	TenantName(ctx context.Context, tenantID string) (string, error)
}
