package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/goldrror9999-sys/Mpdb/internal/application/query"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/middleware"
)

// Pinned public wire messages. Error bodies must not vary with the failure
// cause inside a class; resolution failures in particular share one body.
const (
	msgMissingFields = "api_key and sql (SELECT) required"
	msgAccessDenied  = "Invalid key or project not published"
	msgSelectOnly    = "Only SELECT statements allowed on public API"
)

// PublicHandler handles POST /api/public/:project_name/query, the key-scoped
// read-only path for external consumers.
type PublicHandler struct {
	publicQuery *query.PublicQuery
	log         zerolog.Logger
}

// NewPublicHandler creates the public query handler.
func NewPublicHandler(publicQuery *query.PublicQuery, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{publicQuery: publicQuery, log: log}
}

// Query authenticates by (project name, API key, published state) jointly and
// runs a read-only, row-capped query. Response: { "columns", "rows" }.
func (h *PublicHandler) Query(w http.ResponseWriter, r *http.Request) {
	projectName := chi.URLParam(r, "project_name")
	var body struct {
		APIKey string `json:"api_key"`
		SQL    string `json:"sql"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writePublicErr(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if body.APIKey == "" || strings.TrimSpace(body.SQL) == "" {
		writePublicErr(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	result, err := h.publicQuery.Execute(r.Context(), query.PublicQueryInput{
		ProjectName: projectName,
		APIKey:      body.APIKey,
		SQL:         body.SQL,
	})
	middleware.RecordQueryExecution("public", err == nil)
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrAccessDenied):
			writePublicErr(w, http.StatusForbidden, msgAccessDenied)
		case errors.Is(err, domerrors.ErrInvalidQuery):
			writePublicErr(w, http.StatusBadRequest, msgSelectOnly)
		default:
			// Raw backend error text in the body is a preserved tradeoff.
			h.log.Error().Err(err).Str("project", projectName).Msg("public query failed")
			writePublicErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": result.Columns,
		"rows":    result.Rows,
	})
}
