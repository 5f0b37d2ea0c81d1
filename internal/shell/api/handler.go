// Package api provides the HTTP handlers for the sandwich backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
	"github.com/shorepound/TheSandwich/internal/core/composition"
	"github.com/shorepound/TheSandwich/internal/shell/api/middleware"
	"github.com/shorepound/TheSandwich/internal/shell/email"
	"github.com/shorepound/TheSandwich/internal/shell/store"
)

// =============================================================================
// Handler
// =============================================================================

// Config holds the handler's collaborators and settings.
type Config struct {
	Store      store.Store
	Catalog    store.Catalog
	Email      email.Sender
	Logger     *slog.Logger
	SessionTTL time.Duration
	CORSOrigin string
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store      store.Store
	catalog    store.Catalog
	decoder    *composition.Decoder
	email      email.Sender
	logger     *slog.Logger
	sessionTTL time.Duration
	corsOrigin string
	mfa        *mfaChallenges
}

// NewHandler creates a new API handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &Handler{
		store:      cfg.Store,
		catalog:    cfg.Catalog,
		decoder:    composition.NewDecoder(cfg.Catalog, cfg.Logger),
		email:      cfg.Email,
		logger:     cfg.Logger,
		sessionTTL: cfg.SessionTTL,
		corsOrigin: cfg.CORSOrigin,
		mfa:        newMFAChallenges(),
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if h.corsOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{h.corsOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	r.Use(h.jsonContentType)
	r.Use(h.noStore)
	r.Use(h.requestIDHeader)

	authMW := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Resolver: sessionResolver{store: h.store},
		Logger:   h.logger,
	})
	r.Use(authMW.Handler)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/options/{category}", h.handleListOptions)
		r.Post("/builder", h.handleBuildSandwich)

		r.Route("/sandwiches", func(r chi.Router) {
			r.Get("/", h.handleListSandwiches)
			r.With(middleware.RequireAuth(h.logger)).Get("/mine", h.handleListMine)
			r.Get("/{id}", h.handleGetSandwich)
			r.Put("/{id}", h.handleUpdateSandwich)
			r.Delete("/{id}", h.handleDeleteSandwich)
			r.Post("/backfill-prices", h.handleBackfillPrices)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.handleRegister)
			r.Get("/exists", h.handleEmailExists)
			r.Post("/login", h.handleLogin)
			r.Post("/mfa/verify", h.handleVerifyMFA)
			r.With(middleware.RequireAuth(h.logger)).Post("/mfa/enroll", h.handleEnrollMFA)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// noStore disables client caching on every response so the builder UI always
// sees current catalog and order state.
func (h *Handler) noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := chimw.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// sessionResolver adapts the store's session lookup to the middleware
// contract.
type sessionResolver struct {
	store store.Store
}

func (s sessionResolver) ResolveSession(ctx context.Context, token string) (int64, error) {
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		return 0, err
	}
	return session.UserID, nil
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := h.store.Ping(r.Context()); err != nil {
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Options Handler
// =============================================================================

func (h *Handler) handleListOptions(w http.ResponseWriter, r *http.Request) {
	cat, ok := catalog.Parse(chi.URLParam(r, "category"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	options, err := h.catalog.ListAll(r.Context(), cat)
	if err != nil {
		h.logger.Error("failed to list options", "category", cat, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list options")
		return
	}

	resp := make([]OptionResponse, 0, len(options))
	for _, opt := range options {
		resp = append(resp, OptionResponse{ID: opt.ID, Label: opt.Name})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// isNotFound checks if an error is a store not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
