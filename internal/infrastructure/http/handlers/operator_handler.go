package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/application/project"
	"github.com/goldrror9999-sys/Mpdb/internal/application/query"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
	"github.com/goldrror9999-sys/Mpdb/internal/infrastructure/http/middleware"
)

// tablePreviewLimit caps rows on the operator table preview.
const tablePreviewLimit = 500

var safeTableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// OperatorHandler handles /operator/* (provision projects, run arbitrary SQL,
// manage keys and privacy). Requires X-Mpdb-Operator-Secret.
type OperatorHandler struct {
	createProject *project.CreateProject
	generateKey   *project.GenerateAPIKey
	setPrivacy    *project.SetPrivacy
	execute       *query.OperatorExecute
	projects      ports.ProjectRepository
	backend       ports.BackendAdmin
	validate      *validator.Validate
	log           zerolog.Logger
}

// NewOperatorHandler creates the operator handler.
func NewOperatorHandler(
	createProject *project.CreateProject,
	generateKey *project.GenerateAPIKey,
	setPrivacy *project.SetPrivacy,
	execute *query.OperatorExecute,
	projects ports.ProjectRepository,
	backend ports.BackendAdmin,
	log zerolog.Logger,
) *OperatorHandler {
	return &OperatorHandler{
		createProject: createProject,
		generateKey:   generateKey,
		setPrivacy:    setPrivacy,
		execute:       execute,
		projects:      projects,
		backend:       backend,
		validate:      validator.New(),
		log:           log,
	}
}

// CreateProject handles POST /operator/projects.
// Body: { "name", "password", "privacy" }. Returns the provisioned project.
func (h *OperatorHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name" validate:"required,max=255"`
		Password string `json:"password" validate:"required,max=128"`
		Privacy  string `json:"privacy" validate:"omitempty,oneof=Private Publish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.createProject.Execute(r.Context(), project.CreateProjectInput{
		Name:     body.Name,
		Password: body.Password,
		Privacy:  domain.Privacy(body.Privacy),
	})
	if err != nil {
		h.writeProjectErr(w, err, "create project failed")
		return
	}
	p := result.Project
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       p.ID.String(),
		"name":     p.Name,
		"database": p.DatabaseName,
		"privacy":  string(p.Privacy),
	})
}

// ListProjects handles GET /operator/projects, newest first.
func (h *OperatorHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list projects failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		items = append(items, projectJSON(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": items})
}

// GetProject handles GET /operator/projects/:id. Includes the backend table
// list; a failing table listing degrades to an empty list with a warning.
func (h *OperatorHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	tables, err := h.backend.ListTables(r.Context(), p.DatabaseName)
	if err != nil {
		h.log.Warn().Err(err).Str("database", p.DatabaseName).Msg("could not list tables")
		tables = []string{}
	}
	body := projectJSON(p)
	body["tables"] = tables
	writeJSON(w, http.StatusOK, body)
}

// Execute handles POST /operator/projects/:id/execute. Body: { "sql": "..." }.
// Arbitrary statements; no row cap, no statement-kind restriction.
func (h *OperatorHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		SQL string `json:"sql" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.execute.Execute(r.Context(), query.OperatorExecuteInput{ProjectID: id, Script: body.SQL})
	middleware.RecordQueryExecution("operator", err == nil)
	if err != nil {
		h.writeExecuteErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": statementResultsJSON(result.Results)})
}

// GenerateAPIKey handles POST /operator/projects/:id/api-key. Overwrites any
// previous key. Returns { "api_key": "..." }.
func (h *OperatorHandler) GenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	result, err := h.generateKey.Execute(r.Context(), project.GenerateAPIKeyInput{ProjectID: id})
	if err != nil {
		h.writeProjectErr(w, err, "generate api key failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"api_key": result.APIKey})
}

// SetPrivacy handles PATCH /operator/projects/:id/privacy.
// Body: { "privacy": "Private" | "Publish" }.
func (h *OperatorHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var body struct {
		Privacy string `json:"privacy" validate:"required,oneof=Private Publish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.setPrivacy.Execute(r.Context(), project.SetPrivacyInput{ProjectID: id, Privacy: domain.Privacy(body.Privacy)}); err != nil {
		h.writeProjectErr(w, err, "set privacy failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"privacy": body.Privacy})
}

// TablePreview handles GET /operator/projects/:id/tables/:table. Returns up to
// 500 rows of the table.
func (h *OperatorHandler) TablePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	table := chi.URLParam(r, "table")
	if !safeTableName.MatchString(table) {
		writeErr(w, http.StatusBadRequest, "", "invalid table name")
		return
	}
	script := "SELECT * FROM `" + table + "` LIMIT " + strconv.Itoa(tablePreviewLimit)
	result, err := h.execute.Execute(r.Context(), query.OperatorExecuteInput{ProjectID: id, Script: script})
	if err != nil {
		h.writeExecuteErr(w, err)
		return
	}
	columns := []string{}
	rows := []map[string]any{}
	if len(result.Results) > 0 {
		columns = result.Results[0].Columns
		rows = result.Results[0].Rows
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":   table,
		"columns": columns,
		"rows":    rows,
	})
}

func (h *OperatorHandler) loadProject(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return nil, false
	}
	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Msg("load project failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return nil, false
	}
	if p == nil {
		writeErr(w, http.StatusNotFound, "", domerrors.ErrProjectNotFound.Error())
		return nil, false
	}
	return p, true
}

func (h *OperatorHandler) writeProjectErr(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domerrors.ErrNameAndPasswordRequired),
		errors.Is(err, domerrors.ErrInvalidPrivacy):
		writeErr(w, http.StatusBadRequest, "", err.Error())
	case errors.Is(err, domerrors.ErrProjectExists),
		errors.Is(err, domerrors.ErrDatabaseNameCollision):
		writeErr(w, http.StatusConflict, "", err.Error())
	case errors.Is(err, domerrors.ErrProjectNotFound):
		writeErr(w, http.StatusNotFound, "", err.Error())
	default:
		h.log.Error().Err(err).Msg(logMsg)
		writeErr(w, http.StatusInternalServerError, "", err.Error())
	}
}

// writeExecuteErr surfaces raw backend error text on the operator path; the
// operator is trusted with it.
func (h *OperatorHandler) writeExecuteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrEmptyScript):
		writeErr(w, http.StatusBadRequest, "", err.Error())
	case errors.Is(err, domerrors.ErrProjectNotFound),
		errors.Is(err, domerrors.ErrDatabaseNotFound):
		writeErr(w, http.StatusNotFound, "", err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, ErrCodeExecution, err.Error())
	}
}

func parseProjectID(w http.ResponseWriter, r *http.Request) (domain.ProjectID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return domain.ProjectID{}, false
	}
	return domain.NewProjectID(id), true
}

func projectJSON(p *domain.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID.String(),
		"name":       p.Name,
		"database":   p.DatabaseName,
		"privacy":    string(p.Privacy),
		"api_key":    p.APIKey,
		"created_at": p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func statementResultsJSON(results []ports.StatementResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		out = append(out, map[string]interface{}{
			"statement": res.Statement,
			"columns":   res.Columns,
			"rows":      res.Rows,
		})
	}
	return out
}
