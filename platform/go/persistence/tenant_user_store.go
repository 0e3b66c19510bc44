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

// TenantUsersTable is the fully-qualified tenant end-user table.
const TenantUsersTable = "platform.tenant_users"

// Tenant user statuses. Only active users are valid sign-in targets.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// ErrAmbiguousUser is returned when an email that should identify a single
// active user matches more than one row.
var ErrAmbiguousUser = errors.New("multiple active users match email")

// TenantUserRecord represents one tenant end-user row.
type TenantUserRecord struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	StudentID    *string
	Department   *string
	YearLevel    *string
	Status       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TenantUserStore provides access to the tenant_users table.
type TenantUserStore struct {
	pool *pgxpool.Pool
}

// NewTenantUserStore creates a store over the shared pool.
func NewTenantUserStore(pool *pgxpool.Pool) (*TenantUserStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenantUserStore{pool: pool}, nil
}

// Create inserts a tenant user row.
func (s *TenantUserStore) Create(ctx context.Context, rec TenantUserRecord) (TenantUserRecord, error) {
	if rec.ID == uuid.Nil {
		return TenantUserRecord{}, errors.New("user id is required")
	}
	if rec.TenantID == uuid.Nil {
		return TenantUserRecord{}, errors.New("tenant id is required")
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, tenant_id, email, first_name, last_name, student_id,
            department, year_level, status, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, tenant_id, email, first_name, last_name, student_id,
            department, year_level, status, password_hash, created_at, updated_at
    `, TenantUsersTable)

	row := s.pool.QueryRow(ctx, query,
		rec.ID, rec.TenantID, rec.Email, rec.FirstName, rec.LastName, rec.StudentID,
		rec.Department, rec.YearLevel, rec.Status, rec.PasswordHash,
	)
	out, err := scanTenantUserRecord(row)
	if err != nil {
		return TenantUserRecord{}, mapUniqueViolation(err)
	}
	return out, nil
}

// FindActiveByEmail returns the single active user with the given email.
// Zero matches yield ErrNotFound; more than one yields ErrAmbiguousUser, since
// the sign-in path expects the email to identify exactly one active account.
func (s *TenantUserStore) FindActiveByEmail(ctx context.Context, email string) (TenantUserRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, tenant_id, email, first_name, last_name, student_id,
            department, year_level, status, password_hash, created_at, updated_at
        FROM %s WHERE email = $1 AND status = $2
        LIMIT 2
    `, TenantUsersTable)

	rows, err := s.pool.Query(ctx, query, email, UserStatusActive)
	if err != nil {
		return TenantUserRecord{}, err
	}
	defer rows.Close()

	var matches []TenantUserRecord
	for rows.Next() {
		rec, err := scanTenantUserRecord(rows)
		if err != nil {
			return TenantUserRecord{}, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return TenantUserRecord{}, err
	}

	switch len(matches) {
	case 0:
		return TenantUserRecord{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return TenantUserRecord{}, ErrAmbiguousUser
	}
}

// ListByTenant returns every user of a tenant, newest first.
func (s *TenantUserStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]TenantUserRecord, error) {
	query := fmt.Sprintf(`
        SELECT id, tenant_id, email, first_name, last_name, student_id,
            department, year_level, status, password_hash, created_at, updated_at
        FROM %s WHERE tenant_id = $1
        ORDER BY created_at DESC
    `, TenantUsersTable)

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TenantUserRecord
	for rows.Next() {
		rec, err := scanTenantUserRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateStatus transitions a user between active/inactive/suspended.
func (s *TenantUserStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (TenantUserRecord, error) {
	query := fmt.Sprintf(`
        UPDATE %s SET status = $2, updated_at = now()
        WHERE id = $1
        RETURNING id, tenant_id, email, first_name, last_name, student_id,
            department, year_level, status, password_hash, created_at, updated_at
    `, TenantUsersTable)
	return scanTenantUserRecord(s.pool.QueryRow(ctx, query, id, status))
}

// Count returns the total number of tenant users across all tenants.
func (s *TenantUserStore) Count(ctx context.Context) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", TenantUsersTable)
	if err := s.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanTenantUserRecord(row pgx.Row) (TenantUserRecord, error) {
	var rec TenantUserRecord
	err := row.Scan(&rec.ID, &rec.TenantID, &rec.Email, &rec.FirstName, &rec.LastName,
		&rec.StudentID, &rec.Department, &rec.YearLevel, &rec.Status, &rec.PasswordHash,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TenantUserRecord{}, ErrNotFound
	}
	if err != nil {
		return TenantUserRecord{}, err
	}
	return rec, nil
}
