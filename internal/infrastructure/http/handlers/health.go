package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BackendPinger checks reachability of the shared backend server.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health with metadata-store and backend checks.
type HealthHandler struct {
	pool    *pgxpool.Pool
	backend BackendPinger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(pool *pgxpool.Pool, backend BackendPinger) *HealthHandler {
	return &HealthHandler{pool: pool, backend: backend}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true

	if err := h.pool.Ping(ctx); err != nil {
		checks["metadata"] = "down: " + err.Error()
		allOK = false
	} else {
		checks["metadata"] = "ok"
	}

	if h.backend != nil {
		if err := h.backend.Ping(ctx); err != nil {
			checks["backend"] = "down: " + err.Error()
			allOK = false
		} else {
			checks["backend"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allOK {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "one or more checks failed",
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		Checks: checks,
	})
}
