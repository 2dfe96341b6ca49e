package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// ProjectRepository implements ports.ProjectRepository via raw SQL.
// Password and api_key are stored verbatim (preserved contract, see DESIGN.md).
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	password      TEXT NOT NULL,
	privacy       TEXT NOT NULL,
	database_name TEXT NOT NULL UNIQUE,
	api_key       TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

const (
	createProjectSQL = `INSERT INTO projects (id, name, password, privacy, database_name, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	selectProjectCols = `id, name, password, privacy, database_name, COALESCE(api_key, ''), created_at, updated_at`
	getProjectByIDSQL = `SELECT ` + selectProjectCols + ` FROM projects WHERE id = $1`
	getProjectByName  = `SELECT ` + selectProjectCols + ` FROM projects WHERE name = $1`
	listProjectsSQL   = `SELECT ` + selectProjectCols + ` FROM projects ORDER BY created_at DESC`
	resolvePublicSQL  = `SELECT ` + selectProjectCols + ` FROM projects WHERE name = $1 AND api_key = $2 AND privacy = 'Publish'`
	updateAPIKeySQL   = `UPDATE projects SET api_key = $2, updated_at = NOW() WHERE id = $1`
	updatePrivacySQL  = `UPDATE projects SET privacy = $2, updated_at = NOW() WHERE id = $1`
)

// EnsureSchema creates the projects table if it does not exist.
func (r *ProjectRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.pool.Exec(ctx, createProjectSQL,
		p.ID.UUID, p.Name, p.Password, string(p.Privacy), p.DatabaseName, p.APIKey, p.CreatedAt, p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "projects_database_name_key" {
			return domerrors.ErrDatabaseNameCollision
		}
		return domerrors.ErrProjectExists
	}
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, projectID domain.ProjectID) (*domain.Project, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getProjectByIDSQL, projectID.UUID))
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getProjectByName, name))
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, listProjectsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ResolvePublic matches name, api_key and published state in one query; a
// mismatch on any of the three returns (nil, nil) with no distinction.
func (r *ProjectRepository) ResolvePublic(ctx context.Context, name, apiKey string) (*domain.Project, error) {
	return r.scanOne(r.pool.QueryRow(ctx, resolvePublicSQL, name, apiKey))
}

func (r *ProjectRepository) UpdateAPIKey(ctx context.Context, projectID domain.ProjectID, apiKey string) error {
	tag, err := r.pool.Exec(ctx, updateAPIKeySQL, projectID.UUID, apiKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) UpdatePrivacy(ctx context.Context, projectID domain.ProjectID, privacy domain.Privacy) error {
	tag, err := r.pool.Exec(ctx, updatePrivacySQL, projectID.UUID, string(privacy))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) scanOne(row pgx.Row) (*domain.Project, error) {
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		id      uuid.UUID
		p       domain.Project
		privacy string
	)
	if err := row.Scan(&id, &p.Name, &p.Password, &privacy, &p.DatabaseName, &p.APIKey, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.NewProjectID(id)
	p.Privacy = domain.Privacy(privacy)
	return &p, nil
}

// Ensure ProjectRepository implements ports.ProjectRepository.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)
