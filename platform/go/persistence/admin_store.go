package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminsTable is the fully-qualified tenant administrators table.
const AdminsTable = "platform.tenant_admins"

// AdminRecord represents one tenant administrator row.
type AdminRecord struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminStore provides access to the tenant_admins table.
type AdminStore struct {
	pool *pgxpool.Pool
}

// NewAdminStore creates a store over the shared pool.
func NewAdminStore(pool *pgxpool.Pool) (*AdminStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &AdminStore{pool: pool}, nil
}

// Create inserts an administrator row referencing an existing tenant.
func (s *AdminStore) Create(ctx context.Context, rec AdminRecord) (AdminRecord, error) {
	if rec.ID == uuid.Nil {
		return AdminRecord{}, errors.New("admin id is required")
	}
	if rec.TenantID == uuid.Nil {
		return AdminRecord{}, errors.New("tenant id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, tenant_id, email, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, tenant_id, email, role, created_at, updated_at
    `, AdminsTable)

	row := s.pool.QueryRow(ctx, query, rec.ID, rec.TenantID, rec.Email, rec.Role)
	out, err := scanAdminRecord(row)
	if err != nil {
		return AdminRecord{}, mapUniqueViolation(err)
	}
	return out, nil
}

// UpdateEmailByTenant rewrites the administrator email for the given tenant.
func (s *AdminStore) UpdateEmailByTenant(ctx context.Context, tenantID uuid.UUID, email string) (AdminRecord, error) {
	query := fmt.Sprintf(`
        UPDATE %s SET email = $2, updated_at = now()
        WHERE tenant_id = $1
        RETURNING id, tenant_id, email, role, created_at, updated_at
    `, AdminsTable)
	return scanAdminRecord(s.pool.QueryRow(ctx, query, tenantID, email))
}

// GetByTenant returns the administrator of the given tenant.
func (s *AdminStore) GetByTenant(ctx context.Context, tenantID uuid.UUID) (AdminRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, tenant_id, email, role, created_at, updated_at
        FROM %s WHERE tenant_id = $1
    `, AdminsTable)
	return scanAdminRecord(s.pool.QueryRow(ctx, query, tenantID))
}

func scanAdminRecord(row pgx.Row) (AdminRecord, error) {
	var rec AdminRecord
	err := row.Scan(&rec.ID, &rec.TenantID, &rec.Email, &rec.Role, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminRecord{}, ErrNotFound
	}
	if err != nil {
		return AdminRecord{}, err
	}
	return rec, nil
}
