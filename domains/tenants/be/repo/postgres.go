package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/uninotice/platform/domains/tenants/be/service"
	"github.com/uninotice/platform/platform/go/persistence"
)

// PostgresRepository implements the tenants repository over the shared
// persistence stores.
type PostgresRepository struct {
	tenants       *persistence.TenantStore
	admins        *persistence.AdminStore
	users         *persistence.TenantUserStore
	announcements *persistence.AnnouncementStore
}

// NewPostgresRepository constructs a repository over the four stores backing
// the provisioning and stats paths.
func NewPostgresRepository(
	tenants *persistence.TenantStore,
	admins *persistence.AdminStore,
	users *persistence.TenantUserStore,
	announcements *persistence.AnnouncementStore,
) *PostgresRepository {
	if tenants == nil || admins == nil || users == nil || announcements == nil {
		panic("all persistence stores are required")
	}
	return &PostgresRepository{
		tenants:       tenants,
		admins:        admins,
		users:         users,
		announcements: announcements,
	}
}

func (r *PostgresRepository) CreateTenant(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	rec, err := r.tenants.Create(ctx, persistence.TenantRecord{ID: t.ID, Name: t.Name, Domain: t.Domain})
	if err != nil {
		return service.Tenant{}, mapConflict(err)
	}
	return toServiceTenant(rec), nil
}

func (r *PostgresRepository) UpdateTenant(ctx context.Context, id uuid.UUID, name, domain string) (service.Tenant, error) {
	rec, err := r.tenants.Update(ctx, id, name, domain)
	if err != nil {
		return service.Tenant{}, mapNotFound(mapConflict(err))
	}
	return toServiceTenant(rec), nil
}

func (r *PostgresRepository) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	return mapNotFound(r.tenants.Delete(ctx, id))
}

func (r *PostgresRepository) ListTenants(ctx context.Context) ([]service.Tenant, error) {
	recs, err := r.tenants.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toServiceTenants(recs), nil
}

func (r *PostgresRepository) RecentTenants(ctx context.Context, limit int) ([]service.Tenant, error) {
	recs, err := r.tenants.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toServiceTenants(recs), nil
}

func (r *PostgresRepository) CountTenants(ctx context.Context) (int, error) {
	return r.tenants.Count(ctx)
}

func (r *PostgresRepository) TenantCreationTimes(ctx context.Context) ([]time.Time, error) {
	return r.tenants.CreationTimes(ctx)
}

func (r *PostgresRepository) CreateAdmin(ctx context.Context, a service.Administrator) (service.Administrator, error) {
	rec, err := r.admins.Create(ctx, persistence.AdminRecord{
		ID:       a.ID,
		TenantID: a.TenantID,
		Email:    a.Email,
		Role:     a.Role,
	})
	if err != nil {
		return service.Administrator{}, err
	}
	return toServiceAdmin(rec), nil
}

func (r *PostgresRepository) UpdateAdminEmail(ctx context.Context, tenantID uuid.UUID, email string) (service.Administrator, error) {
	rec, err := r.admins.UpdateEmailByTenant(ctx, tenantID, email)
	if err != nil {
		return service.Administrator{}, mapNotFound(err)
	}
	return toServiceAdmin(rec), nil
}

func (r *PostgresRepository) AdminEmail(ctx context.Context, tenantID uuid.UUID) (string, error) {
	rec, err := r.admins.GetByTenant(ctx, tenantID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return rec.Email, nil
}

func (r *PostgresRepository) CountAnnouncements(ctx context.Context) (int, error) {
	return r.announcements.Count(ctx)
}

func (r *PostgresRepository) CountAnnouncementsByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return r.announcements.CountByTenant(ctx, tenantID)
}

func (r *PostgresRepository) RecentAnnouncements(ctx context.Context, limit int) ([]service.RecentAnnouncement, error) {
	recs, err := r.announcements.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]service.RecentAnnouncement, 0, len(recs))
	for _, rec := range recs {
		items = append(items, service.RecentAnnouncement{
			Title:      rec.Title,
			TenantName: rec.TenantName,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return items, nil
}

func (r *PostgresRepository) CountTenantUsers(ctx context.Context) (int, error) {
	return r.users.Count(ctx)
}

func toServiceTenant(rec persistence.TenantRecord) service.Tenant {
	return service.Tenant{
		ID:        rec.ID,
		Name:      rec.Name,
		Domain:    rec.Domain,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toServiceTenants(recs []persistence.TenantRecord) []service.Tenant {
	tenants := make([]service.Tenant, 0, len(recs))
	for _, rec := range recs {
		tenants = append(tenants, toServiceTenant(rec))
	}
	return tenants
}

func toServiceAdmin(rec persistence.AdminRecord) service.Administrator {
	return service.Administrator{
		ID:       rec.ID,
		TenantID: rec.TenantID,
		Email:    rec.Email,
		Role:     rec.Role,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}

func mapConflict(err error) error {
	if errors.Is(err, persistence.ErrConflict) {
		return service.ErrDomainConflict
	}
	return err
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
