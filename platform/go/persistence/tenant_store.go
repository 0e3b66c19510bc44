package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantsTable is the fully-qualified tenant registry table.
const TenantsTable = "platform.tenants"

// TenantRecord represents one tenant row.
type TenantRecord struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantStore provides access to the tenants table.
type TenantStore struct {
	pool *pgxpool.Pool
}

// NewTenantStore creates a store; assumes migrations already created the table.
func NewTenantStore(pool *pgxpool.Pool) (*TenantStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenantStore{pool: pool}, nil
}

// Create inserts a tenant row. Timestamps are assigned server-side and
// returned with the created row. Domain uniqueness violations map to ErrConflict.
func (s *TenantStore) Create(ctx context.Context, rec TenantRecord) (TenantRecord, error) {
	if rec.ID == uuid.Nil {
		return TenantRecord{}, errors.New("tenant id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, name, domain)
        VALUES ($1, $2, $3)
        RETURNING id, name, domain, created_at, updated_at
    `, TenantsTable)

	row := s.pool.QueryRow(ctx, query, rec.ID, rec.Name, rec.Domain)
	out, err := scanTenantRecord(row)
	if err != nil {
		return TenantRecord{}, mapUniqueViolation(err)
	}
	return out, nil
}

// Update rewrites name and domain of an existing tenant.
func (s *TenantStore) Update(ctx context.Context, id uuid.UUID, name, domain string) (TenantRecord, error) {
	query := fmt.Sprintf(`
        UPDATE %s SET name = $2, domain = $3, updated_at = now()
        WHERE id = $1
        RETURNING id, name, domain, created_at, updated_at
    `, TenantsTable)

	out, err := scanTenantRecord(s.pool.QueryRow(ctx, query, id, name, domain))
	if err != nil {
		return TenantRecord{}, mapUniqueViolation(err)
	}
	return out, nil
}

// Delete removes a tenant row. Dependent admins, users and announcements are
// removed by the ON DELETE CASCADE constraints in the schema.
func (s *TenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", TenantsTable)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches a tenant by id.
func (s *TenantStore) Get(ctx context.Context, id uuid.UUID) (TenantRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, name, domain, created_at, updated_at
        FROM %s WHERE id = $1
    `, TenantsTable)
	return scanTenantRecord(s.pool.QueryRow(ctx, query, id))
}

// ListAll returns every tenant ordered by creation time, newest first.
func (s *TenantStore) ListAll(ctx context.Context) ([]TenantRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, name, domain, created_at, updated_at
        FROM %s ORDER BY created_at DESC
    `, TenantsTable)
	return s.queryTenants(ctx, query)
}

// Recent returns the most recently created tenants.
func (s *TenantStore) Recent(ctx context.Context, limit int) ([]TenantRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, name, domain, created_at, updated_at
        FROM %s ORDER BY created_at DESC LIMIT %d
    `, TenantsTable, limit)
	return s.queryTenants(ctx, query)
}

// Count returns the total number of tenants without fetching rows.
func (s *TenantStore) Count(ctx context.Context) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", TenantsTable)
	if err := s.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CreationTimes returns the creation timestamps of every tenant, newest first.
// Growth figures are derived from this list client-side.
func (s *TenantStore) CreationTimes(ctx context.Context) ([]time.Time, error) {
	query := fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at DESC", TenantsTable)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (s *TenantStore) queryTenants(ctx context.Context, query string, args ...any) ([]TenantRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TenantRecord
	for rows.Next() {
		rec, err := scanTenantRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanTenantRecord(row pgx.Row) (TenantRecord, error) {
	var rec TenantRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Domain, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TenantRecord{}, ErrNotFound
	}
	if err != nil {
		return TenantRecord{}, err
	}
	return rec, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return err
}
