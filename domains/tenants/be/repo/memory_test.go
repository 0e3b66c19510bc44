package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/uninotice/platform/domains/tenants/be/service"
)

func TestMemoryRepositoryCascadeDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	tenant, err := repo.CreateTenant(ctx, service.Tenant{ID: uuid.New(), Name: "Acme U", Domain: "acme.edu"})
	require.NoError(t, err)

	_, err = repo.CreateAdmin(ctx, service.Administrator{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Email:    "admin@acme.edu",
		Role:     service.AdminRole,
	})
	require.NoError(t, err)

	repo.SeedAnnouncement(tenant.ID, "Welcome week", time.Now().UTC())

	count, err := repo.CountAnnouncementsByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, repo.DeleteTenant(ctx, tenant.ID))

	_, err = repo.AdminEmail(ctx, tenant.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	total, err := repo.CountAnnouncements(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestMemoryRepositoryDomainConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.CreateTenant(ctx, service.Tenant{ID: uuid.New(), Name: "Acme U", Domain: "acme.edu"})
	require.NoError(t, err)

	_, err = repo.CreateTenant(ctx, service.Tenant{ID: uuid.New(), Name: "Other U", Domain: "acme.edu"})
	require.ErrorIs(t, err, service.ErrDomainConflict)
}

func TestMemoryRepositoryRecentOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"UA", "UB", "UC"}
	for i, name := range names {
		id := uuid.New()
		repo.tenants[id] = service.Tenant{
			ID:        id,
			Name:      name,
			Domain:    name + ".edu",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		repo.SeedAnnouncement(id, "From "+name, base.Add(time.Duration(i)*time.Minute))
	}

	tenants, err := repo.RecentTenants(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	require.Equal(t, "UC", tenants[0].Name)
	require.Equal(t, "UB", tenants[1].Name)

	feed, err := repo.RecentAnnouncements(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "From UC", feed[0].Title)
	require.Equal(t, "UC", feed[0].TenantName)
}
