package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/taskflow/docs" // Import generated docs
	"github.com/mtlprog/taskflow/internal/handler/dto"
	"github.com/mtlprog/taskflow/internal/middleware"
	"github.com/mtlprog/taskflow/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	taskService    *service.TaskService
	authMiddleware *middleware.AuthMiddleware
	location       *time.Location
}

// Option configures a Handler.
type Option func(*Handler)

// WithLocation sets the time zone used for due dates submitted without an offset.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		h.location = loc
	}
}

// New creates a new Handler instance with all dependencies.
func New(taskService *service.TaskService, authMiddleware *middleware.AuthMiddleware, opts ...Option) *Handler {
	h := &Handler{
		taskService:    taskService,
		authMiddleware: authMiddleware,
		location:       time.Local,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes with authentication
	mux.Handle("GET /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("DELETE /api/v1/tasks/completed", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleClearCompleted)))
	mux.Handle("GET /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeleteTask)))
	mux.Handle("GET /api/v1/stats", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetStats)))
	mux.Handle("GET /api/v1/categories", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListCategories)))
	mux.Handle("POST /api/v1/categories", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateCategory)))
	mux.Handle("PATCH /api/v1/categories/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateCategory)))
	mux.Handle("DELETE /api/v1/categories/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeleteCategory)))
}

// Routes returns the full HTTP handler with request ID and logging middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return middleware.RequestID(middleware.Logging(mux))
}

// handleHealthz returns 200 OK if the store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Ping(r.Context()); err != nil {
		slog.Error("store health check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the store is reachable.
func (h *Handler) Ping(ctx context.Context) error {
	return h.taskService.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err with dto.MapDomainError and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// decodeJSON reads a size-limited JSON body into dst.
// Returns false if decoding failed (error already sent to client).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// extractID extracts and validates a numeric ID from the path parameter.
// Returns (id, true) if valid, (0, false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a positive integer")
		return 0, false
	}

	return id, true
}
