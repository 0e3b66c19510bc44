package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPlatformStoresIntegration provisions a throwaway postgres and walks the
// whole platform core: tenant + admin + users + announcements, the sign-in
// lookup path, and cascade on tenant delete.
func TestPlatformStoresIntegration(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping platform stores integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("uninotice"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, PoolConfig{ConnString: connString})
	require.NoError(t, err)
	t.Cleanup(func() {
		ClosePool(pool)
	})

	require.NoError(t, ApplyCoreSchemaDDL(ctx, pool))

	tenants, err := NewTenantStore(pool)
	require.NoError(t, err)
	admins, err := NewAdminStore(pool)
	require.NoError(t, err)
	users, err := NewTenantUserStore(pool)
	require.NoError(t, err)
	announcements, err := NewAnnouncementStore(pool)
	require.NoError(t, err)

	tenant, err := tenants.Create(ctx, TenantRecord{
		ID:     uuid.New(),
		Name:   "Acme University",
		Domain: "acme.edu",
	})
	require.NoError(t, err)

	_, err = admins.Create(ctx, AdminRecord{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Email:    "admin@acme.edu",
		Role:     "tenant_admin",
	})
	require.NoError(t, err)

	active, err := users.Create(ctx, TenantUserRecord{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "student@acme.edu",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Status:       UserStatusActive,
		PasswordHash: "$argon2id$placeholder",
	})
	require.NoError(t, err)

	_, err = users.Create(ctx, TenantUserRecord{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "ghost@acme.edu",
		FirstName:    "Grace",
		LastName:     "Hopper",
		Status:       UserStatusInactive,
		PasswordHash: "$argon2id$placeholder",
	})
	require.NoError(t, err)

	// The sign-in lookup sees only active rows.
	found, err := users.FindActiveByEmail(ctx, "student@acme.edu")
	require.NoError(t, err)
	require.Equal(t, active.ID, found.ID)

	_, err = users.FindActiveByEmail(ctx, "ghost@acme.edu")
	require.ErrorIs(t, err, ErrNotFound)

	suspended, err := users.UpdateStatus(ctx, active.ID, UserStatusSuspended)
	require.NoError(t, err)
	require.Equal(t, UserStatusSuspended, suspended.Status)

	_, err = users.FindActiveByEmail(ctx, "student@acme.edu")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = announcements.Create(ctx, AnnouncementRecord{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Title:    "Welcome week",
		Content:  "Orientation schedule posted.",
		Status:   "published",
	})
	require.NoError(t, err)

	count, err := announcements.CountByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	recent, err := announcements.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "Acme University", recent[0].TenantName)

	// Deleting the tenant cascades to admins, users and announcements.
	require.NoError(t, tenants.Delete(ctx, tenant.ID))

	_, err = admins.GetByTenant(ctx, tenant.ID)
	require.ErrorIs(t, err, ErrNotFound)

	userCount, err := users.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, userCount)

	total, err := announcements.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}
