package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminRole is the role tag written on every tenant administrator record.
const AdminRole = "tenant_admin"

// recentLimit is the feed size for recent-activity queries.
const recentLimit = 5

// Tenant represents one university account.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Administrator is the single admin record every tenant carries.
type Administrator struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Email    string
	Role     string
}

// TenantWithStats pairs a tenant with its per-tenant dashboard figures.
type TenantWithStats struct {
	Tenant
	AnnouncementsCount int
	AdminEmail         string
}

// AggregateStats holds the cross-tenant dashboard figures. Derived on demand,
// never persisted.
type AggregateStats struct {
	TenantCount       int
	AnnouncementCount int
	TenantUserCount   int
	GrowthPercentage  int
}

// RecentTenant is one entry of the recent-activity tenant feed.
type RecentTenant struct {
	Name      string
	CreatedAt time.Time
}

// RecentAnnouncement is one entry of the recent-activity announcement feed.
type RecentAnnouncement struct {
	Title      string
	TenantName string
	CreatedAt  time.Time
}

// Activity bundles the two independent recent feeds. They are not merged or
// interleaved.
type Activity struct {
	Tenants       []RecentTenant
	Announcements []RecentAnnouncement
}

// CreateInput is the request to provision a tenant with its administrator.
// AdminPassword is accepted for the admin's future auth account; the
// administrator registry row itself carries no credential.
type CreateInput struct {
	Name          string
	Domain        string
	AdminEmail    string
	AdminPassword string
}

// UpdateInput carries the mutable tenant fields plus the admin email.
type UpdateInput struct {
	Name       string
	Domain     string
	AdminEmail string
}

// Repository abstracts the tenant-data collaborator. It mirrors the store's
// per-table operations; no multi-table transaction is available, which is why
// Create below runs as a manual saga.
type Repository interface {
	CreateTenant(ctx context.Context, t Tenant) (Tenant, error)
	UpdateTenant(ctx context.Context, id uuid.UUID, name, domain string) (Tenant, error)
	DeleteTenant(ctx context.Context, id uuid.UUID) error
	ListTenants(ctx context.Context) ([]Tenant, error)
	RecentTenants(ctx context.Context, limit int) ([]Tenant, error)
	CountTenants(ctx context.Context) (int, error)
	TenantCreationTimes(ctx context.Context) ([]time.Time, error)

	CreateAdmin(ctx context.Context, a Administrator) (Administrator, error)
	UpdateAdminEmail(ctx context.Context, tenantID uuid.UUID, email string) (Administrator, error)
	AdminEmail(ctx context.Context, tenantID uuid.UUID) (string, error)

	CountAnnouncements(ctx context.Context) (int, error)
	CountAnnouncementsByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	RecentAnnouncements(ctx context.Context, limit int) ([]RecentAnnouncement, error)

	CountTenantUsers(ctx context.Context) (int, error)
}

// Service provides tenant provisioning and cross-tenant statistics.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// New constructs a Service with required dependencies.
func New(repo Repository, logger *zap.Logger) *Service {
	if repo == nil {
		panic("tenants repo is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create provisions a tenant and its administrator as two dependent writes.
// The store offers no multi-row transaction, so the second write failing
// triggers a compensating delete of the first. Only after both inserts
// succeed is the tenant returned; the invariant "every tenant has exactly one
// administrator" holds whenever this call returns without error.
func (s *Service) Create(ctx context.Context, input CreateInput) (Tenant, error) {
	if err := validateCreate(input); err != nil {
		return Tenant{}, err
	}

	tenant, err := s.repo.CreateTenant(ctx, Tenant{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(input.Name),
		Domain: strings.ToLower(strings.TrimSpace(input.Domain)),
	})
	if err != nil {
		return Tenant{}, fmt.Errorf("%w: %w", ErrTenantCreateFailed, err)
	}

	_, err = s.repo.CreateAdmin(ctx, Administrator{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Email:    strings.TrimSpace(input.AdminEmail),
		Role:     AdminRole,
	})
	if err == nil {
		return tenant, nil
	}

	// Compensate: remove the tenant created above. A failure here leaves an
	// orphaned tenant and must be escalated, never swallowed.
	if delErr := s.repo.DeleteTenant(ctx, tenant.ID); delErr != nil {
		compErr := &CompensationError{TenantID: tenant.ID, AdminErr: err, DeleteErr: delErr}
		s.logger.Error("tenant provisioning compensation failed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.NamedError("admin_error", err),
			zap.NamedError("delete_error", delErr),
		)
		return Tenant{}, compErr
	}

	return Tenant{}, fmt.Errorf("%w: %w", ErrAdminCreateFailed, err)
}

// Update rewrites the tenant row, then the administrator email. When the
// admin update fails after the tenant update succeeded, the tenant change is
// NOT rolled back; the caller receives a PartialUpdateError carrying the
// updated tenant.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Tenant, error) {
	tenant, err := s.repo.UpdateTenant(ctx, id,
		strings.TrimSpace(input.Name),
		strings.ToLower(strings.TrimSpace(input.Domain)),
	)
	if err != nil {
		return Tenant{}, err
	}

	if _, err := s.repo.UpdateAdminEmail(ctx, id, strings.TrimSpace(input.AdminEmail)); err != nil {
		return tenant, &PartialUpdateError{Tenant: tenant, AdminErr: err}
	}

	return tenant, nil
}

// Delete removes the tenant row. Cascading removal of its administrator,
// users and announcements is the backing store's responsibility.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTenant(ctx, id)
}

// ListWithStats assembles one row per tenant with its announcement count and
// administrator email. Cost is O(tenants) round-trips, which is fine at the
// tens-to-hundreds scale of this registry.
func (s *Service) ListWithStats(ctx context.Context) ([]TenantWithStats, error) {
	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]TenantWithStats, 0, len(tenants))
	for _, tenant := range tenants {
		count, err := s.repo.CountAnnouncementsByTenant(ctx, tenant.ID)
		if err != nil {
			return nil, fmt.Errorf("count announcements for %s: %w", tenant.ID, err)
		}

		adminEmail, err := s.repo.AdminEmail(ctx, tenant.ID)
		if err != nil {
			adminEmail = "N/A"
		}

		rows = append(rows, TenantWithStats{
			Tenant:             tenant,
			AnnouncementsCount: count,
			AdminEmail:         adminEmail,
		})
	}
	return rows, nil
}

// PlatformStats derives the aggregate dashboard figures from three
// independent counts plus a month-over-month comparison of tenant creation
// times.
func (s *Service) PlatformStats(ctx context.Context) (AggregateStats, error) {
	tenantCount, err := s.repo.CountTenants(ctx)
	if err != nil {
		return AggregateStats{}, fmt.Errorf("count tenants: %w", err)
	}

	announcementCount, err := s.repo.CountAnnouncements(ctx)
	if err != nil {
		return AggregateStats{}, fmt.Errorf("count announcements: %w", err)
	}

	userCount, err := s.repo.CountTenantUsers(ctx)
	if err != nil {
		return AggregateStats{}, fmt.Errorf("count tenant users: %w", err)
	}

	times, err := s.repo.TenantCreationTimes(ctx)
	if err != nil {
		return AggregateStats{}, fmt.Errorf("list tenant creation times: %w", err)
	}

	return AggregateStats{
		TenantCount:       tenantCount,
		AnnouncementCount: announcementCount,
		TenantUserCount:   userCount,
		GrowthPercentage:  growthPercentage(times, s.now()),
	}, nil
}

// RecentActivity fetches the most recent tenants and announcements as two
// independent feeds.
func (s *Service) RecentActivity(ctx context.Context) (Activity, error) {
	tenants, err := s.repo.RecentTenants(ctx, recentLimit)
	if err != nil {
		return Activity{}, fmt.Errorf("recent tenants: %w", err)
	}

	announcements, err := s.repo.RecentAnnouncements(ctx, recentLimit)
	if err != nil {
		return Activity{}, fmt.Errorf("recent announcements: %w", err)
	}

	feed := Activity{
		Tenants:       make([]RecentTenant, 0, len(tenants)),
		Announcements: announcements,
	}
	for _, tenant := range tenants {
		feed.Tenants = append(feed.Tenants, RecentTenant{Name: tenant.Name, CreatedAt: tenant.CreatedAt})
	}
	return feed, nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrTenantCreateFailed)
	}
	if strings.TrimSpace(input.Domain) == "" {
		return fmt.Errorf("%w: domain is required", ErrTenantCreateFailed)
	}
	if strings.TrimSpace(input.AdminEmail) == "" {
		return fmt.Errorf("%w: admin email is required", ErrTenantCreateFailed)
	}
	return nil
}
