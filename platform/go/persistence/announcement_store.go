package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnnouncementsTable is the fully-qualified announcements table.
const AnnouncementsTable = "platform.announcements"

// AnnouncementRecord represents one announcement row.
type AnnouncementRecord struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Title     string
	Content   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecentAnnouncement pairs an announcement title with the owning tenant's name
// for activity feeds.
type RecentAnnouncement struct {
	Title      string
	TenantName string
	CreatedAt  time.Time
}

// AnnouncementStore provides read access to the announcements table. Full CRUD
// lives with the per-tenant admin surface, not the platform core.
type AnnouncementStore struct {
	pool *pgxpool.Pool
}

// NewAnnouncementStore creates a store over the shared pool.
func NewAnnouncementStore(pool *pgxpool.Pool) (*AnnouncementStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &AnnouncementStore{pool: pool}, nil
}

// Create inserts an announcement row. Used by seeding and tests.
func (s *AnnouncementStore) Create(ctx context.Context, rec AnnouncementRecord) (AnnouncementRecord, error) {
	if rec.ID == uuid.Nil {
		return AnnouncementRecord{}, errors.New("announcement id is required")
	}
	if rec.TenantID == uuid.Nil {
		return AnnouncementRecord{}, errors.New("tenant id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, tenant_id, title, content, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, tenant_id, title, content, status, created_at, updated_at
    `, AnnouncementsTable)

	row := s.pool.QueryRow(ctx, query, rec.ID, rec.TenantID, rec.Title, rec.Content, rec.Status)
	var out AnnouncementRecord
	err := row.Scan(&out.ID, &out.TenantID, &out.Title, &out.Content, &out.Status, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return AnnouncementRecord{}, err
	}
	return out, nil
}

// CountByTenant returns the number of announcements scoped to one tenant.
func (s *AnnouncementStore) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tenant_id = $1", AnnouncementsTable)
	if err := s.pool.QueryRow(ctx, query, tenantID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Count returns the total number of announcements across all tenants.
func (s *AnnouncementStore) Count(ctx context.Context) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", AnnouncementsTable)
	if err := s.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Recent returns the most recently created announcements joined with their
// tenant's display name, newest first.
func (s *AnnouncementStore) Recent(ctx context.Context, limit int) ([]RecentAnnouncement, error) {
	query := fmt.Sprintf(`
        SELECT a.title, t.name, a.created_at
        FROM %s a
        JOIN %s t ON t.id = a.tenant_id
        ORDER BY a.created_at DESC
        LIMIT %d
    `, AnnouncementsTable, TenantsTable, limit)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecentAnnouncement
	for rows.Next() {
		var item RecentAnnouncement
		if err := rows.Scan(&item.Title, &item.TenantName, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
