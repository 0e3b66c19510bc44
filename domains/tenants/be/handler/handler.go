package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uninotice/platform/domains/tenants/be/service"
	platformlogging "github.com/uninotice/platform/platform/go/logging"
)

const (
	problemTypeValidation    = "https://uninotice.app/problems/validation-error"
	problemTypeNotFound      = "https://uninotice.app/problems/not-found"
	problemTypeConflict      = "https://uninotice.app/problems/conflict"
	problemTypePartialUpdate = "https://uninotice.app/problems/partial-update"
	problemTypeInternal      = "https://uninotice.app/problems/internal-error"
	tenantsBasePath          = "/api/v1/tenants"
)

type operation string

const (
	listOperation     operation = "listTenants"
	createOperation   operation = "createTenant"
	updateOperation   operation = "updateTenant"
	deleteOperation   operation = "deleteTenant"
	statsOperation    operation = "platformStats"
	activityOperation operation = "recentActivity"
)

// Service is the provisioning surface the handler depends on.
type Service interface {
	Create(ctx context.Context, input service.CreateInput) (service.Tenant, error)
	Update(ctx context.Context, id uuid.UUID, input service.UpdateInput) (service.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListWithStats(ctx context.Context) ([]service.TenantWithStats, error)
	PlatformStats(ctx context.Context) (service.AggregateStats, error)
	RecentActivity(ctx context.Context) (service.Activity, error)
}

// ProblemDetails is the problem+json error body shared by all endpoints.
type ProblemDetails struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Handler exposes tenant provisioning and platform stats over HTTP.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("tenants service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the tenant endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/tenants", h.ListTenants)
	r.Post("/tenants", h.CreateTenant)
	r.Put("/tenants/{tenantID}", h.UpdateTenant)
	r.Delete("/tenants/{tenantID}", h.DeleteTenant)
	r.Get("/stats", h.PlatformStats)
	r.Get("/activity", h.RecentActivity)
	return r
}

type createTenantRequest struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

type updateTenantRequest struct {
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	AdminEmail string `json:"admin_email"`
}

type tenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type tenantWithStatsResponse struct {
	tenantResponse
	AnnouncementsCount int    `json:"announcements_count"`
	AdminEmail         string `json:"admin_email"`
}

type statsResponse struct {
	TenantCount       int `json:"tenant_count"`
	AnnouncementCount int `json:"announcement_count"`
	TenantUserCount   int `json:"tenant_user_count"`
	GrowthPercentage  int `json:"growth_percentage"`
}

type recentTenantResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type recentAnnouncementResponse struct {
	Title      string    `json:"title"`
	TenantName string    `json:"tenant_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type activityResponse struct {
	Tenants       []recentTenantResponse       `json:"tenants"`
	Announcements []recentAnnouncementResponse `json:"announcements"`
}

func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListWithStats(r.Context())
	if err != nil {
		h.writeProblem(w, r, err, listOperation)
		return
	}

	items := make([]tenantWithStatsResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, tenantWithStatsResponse{
			tenantResponse:     toAPITenant(row.Tenant),
			AnnouncementsCount: row.AnnouncementsCount,
			AdminEmail:         row.AdminEmail,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, r, createOperation)
		return
	}

	tenant, err := h.svc.Create(r.Context(), service.CreateInput{
		Name:          req.Name,
		Domain:        req.Domain,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		h.writeProblem(w, r, err, createOperation)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s", tenantsBasePath, tenant.ID))
	h.writeJSON(w, http.StatusCreated, toAPITenant(tenant))
}

func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeProblemBody(w, r, http.StatusBadRequest, ProblemDetails{
			Type:   problemTypeValidation,
			Title:  "Validation failed",
			Status: http.StatusBadRequest,
			Detail: "tenant id is not a valid UUID",
		}, updateOperation, err)
		return
	}

	var req updateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, r, updateOperation)
		return
	}

	tenant, err := h.svc.Update(r.Context(), id, service.UpdateInput{
		Name:       req.Name,
		Domain:     req.Domain,
		AdminEmail: req.AdminEmail,
	})
	if err != nil {
		h.writeProblem(w, r, err, updateOperation)
		return
	}

	h.writeJSON(w, http.StatusOK, toAPITenant(tenant))
}

func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeProblemBody(w, r, http.StatusBadRequest, ProblemDetails{
			Type:   problemTypeValidation,
			Title:  "Validation failed",
			Status: http.StatusBadRequest,
			Detail: "tenant id is not a valid UUID",
		}, deleteOperation, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeProblem(w, r, err, deleteOperation)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.PlatformStats(r.Context())
	if err != nil {
		h.writeProblem(w, r, err, statsOperation)
		return
	}

	h.writeJSON(w, http.StatusOK, statsResponse{
		TenantCount:       stats.TenantCount,
		AnnouncementCount: stats.AnnouncementCount,
		TenantUserCount:   stats.TenantUserCount,
		GrowthPercentage:  stats.GrowthPercentage,
	})
}

func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	feed, err := h.svc.RecentActivity(r.Context())
	if err != nil {
		h.writeProblem(w, r, err, activityOperation)
		return
	}

	resp := activityResponse{
		Tenants:       make([]recentTenantResponse, 0, len(feed.Tenants)),
		Announcements: make([]recentAnnouncementResponse, 0, len(feed.Announcements)),
	}
	for _, tenant := range feed.Tenants {
		resp.Tenants = append(resp.Tenants, recentTenantResponse{Name: tenant.Name, CreatedAt: tenant.CreatedAt})
	}
	for _, a := range feed.Announcements {
		resp.Announcements = append(resp.Announcements, recentAnnouncementResponse{
			Title:      a.Title,
			TenantName: a.TenantName,
			CreatedAt:  a.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func toAPITenant(t service.Tenant) tenantResponse {
	return tenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Domain:    t.Domain,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response body", zap.Error(err))
	}
}

func (h *Handler) writeBadBody(w http.ResponseWriter, r *http.Request, op operation) {
	h.writeProblemBody(w, r, http.StatusBadRequest, ProblemDetails{
		Type:   problemTypeValidation,
		Title:  "Invalid request body",
		Status: http.StatusBadRequest,
		Detail: "request body is not valid JSON",
	}, op, nil)
}

func (h *Handler) writeProblem(w http.ResponseWriter, r *http.Request, err error, op operation) {
	status, problem := h.classifyError(err)
	h.writeProblemBody(w, r, status, problem, op, err)
}

func (h *Handler) writeProblemBody(w http.ResponseWriter, r *http.Request, status int, problem ProblemDetails, op operation, err error) {
	logger := h.loggerFrom(r.Context())
	fields := []zap.Field{
		zap.String("operation", string(op)),
		zap.Int("status", status),
	}

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("tenants operation failed", append(fields, zap.Error(err))...)
	case status == http.StatusNotFound:
		logger.Info("tenant not found", append(fields, zap.Error(err))...)
	default:
		logger.Warn("tenants request rejected", append(fields, zap.Error(err))...)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(problem); encErr != nil {
		h.logger.Error("failed to encode problem body", zap.Error(encErr))
	}
}

func (h *Handler) classifyError(err error) (int, ProblemDetails) {
	var compErr *service.CompensationError
	var partialErr *service.PartialUpdateError

	switch {
	case errors.As(err, &compErr):
		return http.StatusInternalServerError, ProblemDetails{
			Type:   problemTypeInternal,
			Title:  "Provisioning failed",
			Status: http.StatusInternalServerError,
			Detail: "tenant could not be provisioned and cleanup did not complete",
		}
	case errors.As(err, &partialErr):
		return http.StatusInternalServerError, ProblemDetails{
			Type:   problemTypePartialUpdate,
			Title:  "Partial update",
			Status: http.StatusInternalServerError,
			Detail: "tenant was updated but the administrator email was not",
		}
	case errors.Is(err, service.ErrDomainConflict):
		return http.StatusConflict, ProblemDetails{
			Type:   problemTypeConflict,
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: "a tenant with this domain already exists",
		}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ProblemDetails{
			Type:   problemTypeNotFound,
			Title:  "Resource not found",
			Status: http.StatusNotFound,
			Detail: "tenant not found",
		}
	case errors.Is(err, service.ErrTenantCreateFailed):
		return http.StatusBadRequest, ProblemDetails{
			Type:   problemTypeValidation,
			Title:  "Validation failed",
			Status: http.StatusBadRequest,
			Detail: "tenant could not be created",
		}
	case errors.Is(err, service.ErrAdminCreateFailed):
		return http.StatusInternalServerError, ProblemDetails{
			Type:   problemTypeInternal,
			Title:  "Provisioning failed",
			Status: http.StatusInternalServerError,
			Detail: "administrator could not be created; the tenant was rolled back",
		}
	default:
		return http.StatusInternalServerError, ProblemDetails{
			Type:   problemTypeInternal,
			Title:  "Internal server error",
			Status: http.StatusInternalServerError,
			Detail: "an unexpected error occurred",
		}
	}
}

func (h *Handler) loggerFrom(ctx context.Context) *zap.Logger {
	if logger, ok := platformlogging.FromContext(ctx); ok {
		return logger
	}
	return h.logger
}
