package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/uninotice/platform/domains/tenants/be/service"
)

type mockService struct {
	createFn   func(ctx context.Context, input service.CreateInput) (service.Tenant, error)
	updateFn   func(ctx context.Context, id uuid.UUID, input service.UpdateInput) (service.Tenant, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
	listFn     func(ctx context.Context) ([]service.TenantWithStats, error)
	statsFn    func(ctx context.Context) (service.AggregateStats, error)
	activityFn func(ctx context.Context) (service.Activity, error)
}

func (m *mockService) Create(ctx context.Context, input service.CreateInput) (service.Tenant, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, input)
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, input service.UpdateInput) (service.Tenant, error) {
	if m.updateFn == nil {
		panic("updateFn not configured")
	}
	return m.updateFn(ctx, id, input)
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn == nil {
		panic("deleteFn not configured")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockService) ListWithStats(ctx context.Context) ([]service.TenantWithStats, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx)
}

func (m *mockService) PlatformStats(ctx context.Context) (service.AggregateStats, error) {
	if m.statsFn == nil {
		panic("statsFn not configured")
	}
	return m.statsFn(ctx)
}

func (m *mockService) RecentActivity(ctx context.Context) (service.Activity, error) {
	if m.activityFn == nil {
		panic("activityFn not configured")
	}
	return m.activityFn(ctx)
}

func newTestHandler(t *testing.T, svc *mockService) http.Handler {
	t.Helper()
	return New(svc, zaptest.NewLogger(t)).Routes()
}

func TestCreateTenantReturns201WithLocation(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &mockService{
		createFn: func(_ context.Context, input service.CreateInput) (service.Tenant, error) {
			require.Equal(t, "Acme U", input.Name)
			require.Equal(t, "acme.edu", input.Domain)
			require.Equal(t, "admin@acme.edu", input.AdminEmail)
			now := time.Now().UTC()
			return service.Tenant{ID: id, Name: input.Name, Domain: input.Domain, CreatedAt: now, UpdatedAt: now}, nil
		},
	}

	body := `{"name":"Acme U","domain":"acme.edu","admin_email":"admin@acme.edu","admin_password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/tenants", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "/api/v1/tenants/"+id.String(), rec.Header().Get("Location"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Acme U", resp["name"])
}

func TestCreateTenantDomainConflict(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		createFn: func(_ context.Context, _ service.CreateInput) (service.Tenant, error) {
			return service.Tenant{}, service.ErrDomainConflict
		},
	}

	body := `{"name":"Acme U","domain":"acme.edu","admin_email":"admin@acme.edu"}`
	req := httptest.NewRequest(http.MethodPost, "/tenants", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "Conflict", problem.Title)
}

func TestCreateTenantRejectsBadBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/tenants", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newTestHandler(t, &mockService{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTenantsIncludesStats(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		listFn: func(_ context.Context) ([]service.TenantWithStats, error) {
			now := time.Now().UTC()
			return []service.TenantWithStats{
				{
					Tenant:             service.Tenant{ID: uuid.New(), Name: "Acme U", Domain: "acme.edu", CreatedAt: now, UpdatedAt: now},
					AnnouncementsCount: 0,
					AdminEmail:         "N/A",
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			Name               string `json:"name"`
			AnnouncementsCount int    `json:"announcements_count"`
			AdminEmail         string `json:"admin_email"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 0, resp.Items[0].AnnouncementsCount)
	require.Equal(t, "N/A", resp.Items[0].AdminEmail)
}

func TestUpdateTenantRejectsBadID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPut, "/tenants/not-a-uuid", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newTestHandler(t, &mockService{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTenantPartialFailure(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &mockService{
		updateFn: func(_ context.Context, _ uuid.UUID, _ service.UpdateInput) (service.Tenant, error) {
			return service.Tenant{}, &service.PartialUpdateError{
				Tenant:   service.Tenant{ID: id, Name: "Acme University"},
				AdminErr: service.ErrNotFound,
			}
		},
	}

	body := `{"name":"Acme University","domain":"acme.edu","admin_email":"new@acme.edu"}`
	req := httptest.NewRequest(http.MethodPut, "/tenants/"+id.String(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, problemTypePartialUpdate, problem.Type)
}

func TestDeleteTenant(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := &mockService{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			require.Equal(t, id, got)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/tenants/"+id.String(), nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTenantNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		deleteFn: func(_ context.Context, _ uuid.UUID) error {
			return service.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/tenants/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlatformStats(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		statsFn: func(_ context.Context) (service.AggregateStats, error) {
			return service.AggregateStats{TenantCount: 4, AnnouncementCount: 12, TenantUserCount: 80, GrowthPercentage: 0}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 4, resp.TenantCount)
	require.Equal(t, 12, resp.AnnouncementCount)
	require.Equal(t, 80, resp.TenantUserCount)
	require.Equal(t, 0, resp.GrowthPercentage)
}

func TestRecentActivity(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	svc := &mockService{
		activityFn: func(_ context.Context) (service.Activity, error) {
			return service.Activity{
				Tenants: []service.RecentTenant{{Name: "Acme U", CreatedAt: now}},
				Announcements: []service.RecentAnnouncement{
					{Title: "Welcome week", TenantName: "Acme U", CreatedAt: now},
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/activity", nil)
	rec := httptest.NewRecorder()
	newTestHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tenants, 1)
	require.Len(t, resp.Announcements, 1)
	require.Equal(t, "Welcome week", resp.Announcements[0].Title)
}
