// Package repo provides the tenant-datastore backed directory used by
// credential resolution.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uninotice/platform/domains/identity/be/service"
	"github.com/uninotice/platform/platform/go/persistence"
)

// PostgresDirectory implements the read-only identity lookups over the shared
// persistence layer.
type PostgresDirectory struct {
	users   *persistence.TenantUserStore
	tenants *persistence.TenantStore
}

// NewPostgresDirectory constructs a directory over the shared stores.
func NewPostgresDirectory(users *persistence.TenantUserStore, tenants *persistence.TenantStore) *PostgresDirectory {
	if users == nil {
		panic("tenant user store is required")
	}
	if tenants == nil {
		panic("tenant store is required")
	}
	return &PostgresDirectory{users: users, tenants: tenants}
}

// FindActiveUserByEmail returns the single active user with the email.
// Inactive and suspended rows never match, so a correct password cannot
// resurrect a deactivated account.
func (d *PostgresDirectory) FindActiveUserByEmail(ctx context.Context, email string) (service.DirectoryUser, error) {
	rec, err := d.users.FindActiveByEmail(ctx, email)
	if errors.Is(err, persistence.ErrNotFound) {
		return service.DirectoryUser{}, service.ErrUserNotFound
	}
	if err != nil {
		return service.DirectoryUser{}, fmt.Errorf("find active user: %w", err)
	}

	return service.DirectoryUser{
		ID:           rec.ID.String(),
		TenantID:     rec.TenantID.String(),
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		StudentID:    deref(rec.StudentID),
		Department:   deref(rec.Department),
		YearLevel:    deref(rec.YearLevel),
	}, nil
}

// TenantName resolves a tenant id to its display name.
func (d *PostgresDirectory) TenantName(ctx context.Context, tenantID string) (string, error) {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return "", fmt.Errorf("parse tenant id: %w", err)
	}
	rec, err := d.tenants.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return rec.Name, nil
}

// RevokeSession is the best-effort backend revocation hook. The tenant
// datastore keeps no server-side session state, so there is nothing to
// revoke.
func (d *PostgresDirectory) RevokeSession(ctx context.Context) error {
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ service.Directory      = (*PostgresDirectory)(nil)
	_ service.SessionRevoker = (*PostgresDirectory)(nil)
)
