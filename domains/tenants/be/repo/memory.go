package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uninotice/platform/domains/tenants/be/service"
)

type memoryAnnouncement struct {
	tenantID  uuid.UUID
	title     string
	createdAt time.Time
}

// MemoryRepository is an in-memory repository used by tests and local
// development. It mirrors the cascade semantics of the SQL schema: deleting a
// tenant removes its administrators and announcements.
type MemoryRepository struct {
	mu            sync.RWMutex
	tenants       map[uuid.UUID]service.Tenant
	admins        map[uuid.UUID]service.Administrator
	announcements []memoryAnnouncement
	userCount     int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tenants: make(map[uuid.UUID]service.Tenant),
		admins:  make(map[uuid.UUID]service.Administrator),
	}
}

func (r *MemoryRepository) CreateTenant(_ context.Context, t service.Tenant) (service.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tenants {
		if existing.Domain == t.Domain {
			return service.Tenant{}, service.ErrDomainConflict
		}
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tenants[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) UpdateTenant(_ context.Context, id uuid.UUID, name, domain string) (service.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}
	for otherID, existing := range r.tenants {
		if otherID != id && existing.Domain == domain {
			return service.Tenant{}, service.ErrDomainConflict
		}
	}
	t.Name = name
	t.Domain = domain
	t.UpdatedAt = time.Now().UTC()
	r.tenants[id] = t
	return t, nil
}

func (r *MemoryRepository) DeleteTenant(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[id]; !ok {
		return service.ErrNotFound
	}
	delete(r.tenants, id)
	for adminID, a := range r.admins {
		if a.TenantID == id {
			delete(r.admins, adminID)
		}
	}
	kept := r.announcements[:0]
	for _, a := range r.announcements {
		if a.tenantID != id {
			kept = append(kept, a)
		}
	}
	r.announcements = kept
	return nil
}

func (r *MemoryRepository) ListTenants(_ context.Context) ([]service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedTenants(), nil
}

func (r *MemoryRepository) RecentTenants(_ context.Context, limit int) ([]service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenants := r.sortedTenants()
	if len(tenants) > limit {
		tenants = tenants[:limit]
	}
	return tenants, nil
}

func (r *MemoryRepository) CountTenants(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants), nil
}

func (r *MemoryRepository) TenantCreationTimes(_ context.Context) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	times := make([]time.Time, 0, len(r.tenants))
	for _, t := range r.tenants {
		times = append(times, t.CreatedAt)
	}
	return times, nil
}

func (r *MemoryRepository) CreateAdmin(_ context.Context, a service.Administrator) (service.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[a.TenantID]; !ok {
		return service.Administrator{}, service.ErrNotFound
	}
	r.admins[a.ID] = a
	return a, nil
}

func (r *MemoryRepository) UpdateAdminEmail(_ context.Context, tenantID uuid.UUID, email string) (service.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.admins {
		if a.TenantID == tenantID {
			a.Email = email
			r.admins[id] = a
			return a, nil
		}
	}
	return service.Administrator{}, service.ErrNotFound
}

func (r *MemoryRepository) AdminEmail(_ context.Context, tenantID uuid.UUID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.TenantID == tenantID {
			return a.Email, nil
		}
	}
	return "", service.ErrNotFound
}

// SeedAnnouncement records an announcement for stats and activity reads.
func (r *MemoryRepository) SeedAnnouncement(tenantID uuid.UUID, title string, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announcements = append(r.announcements, memoryAnnouncement{
		tenantID:  tenantID,
		title:     title,
		createdAt: createdAt,
	})
}

// SeedUserCount sets the platform-wide user total reported by stats.
func (r *MemoryRepository) SeedUserCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userCount = n
}

func (r *MemoryRepository) CountAnnouncements(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.announcements), nil
}

func (r *MemoryRepository) CountAnnouncementsByTenant(_ context.Context, tenantID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, a := range r.announcements {
		if a.tenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) RecentAnnouncements(_ context.Context, limit int) ([]service.RecentAnnouncement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := make([]memoryAnnouncement, len(r.announcements))
	copy(sorted, r.announcements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].createdAt.After(sorted[j].createdAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	items := make([]service.RecentAnnouncement, 0, len(sorted))
	for _, a := range sorted {
		name := ""
		if t, ok := r.tenants[a.tenantID]; ok {
			name = t.Name
		}
		items = append(items, service.RecentAnnouncement{
			Title:      a.title,
			TenantName: name,
			CreatedAt:  a.createdAt,
		})
	}
	return items, nil
}

func (r *MemoryRepository) CountTenantUsers(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userCount, nil
}

func (r *MemoryRepository) sortedTenants() []service.Tenant {
	tenants := make([]service.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		tenants = append(tenants, t)
	}
	sort.Slice(tenants, func(i, j int) bool {
		return tenants[i].CreatedAt.After(tenants[j].CreatedAt)
	})
	return tenants
}

var _ service.Repository = (*MemoryRepository)(nil)
