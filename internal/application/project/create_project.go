package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// CreateProjectInput carries operator-chosen project attributes.
type CreateProjectInput struct {
	Name     string
	Password string
	Privacy  domain.Privacy
}

// CreateProjectResult returns the created project.
type CreateProjectResult struct {
	Project *domain.Project
}

// CreateProject provisions a project: derives the backend database name,
// creates the backend database, then persists metadata. The backend database
// is created before the metadata row; a crash in between leaves an orphaned
// database (accepted gap, see DESIGN.md).
type CreateProject struct {
	projects ports.ProjectRepository
	backend  ports.BackendAdmin
}

// NewCreateProject builds the use case.
func NewCreateProject(projects ports.ProjectRepository, backend ports.BackendAdmin) *CreateProject {
	return &CreateProject{projects: projects, backend: backend}
}

// Execute validates input, provisions the backend database and persists the
// project. Name uniqueness and sanitized-name collisions are both rejected.
func (uc *CreateProject) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectResult, error) {
	name := strings.TrimSpace(input.Name)
	password := strings.TrimSpace(input.Password)
	if name == "" || password == "" {
		return nil, domerrors.ErrNameAndPasswordRequired
	}
	privacy := input.Privacy
	if privacy == "" {
		privacy = domain.PrivacyPrivate
	}
	if !privacy.Valid() {
		return nil, domerrors.ErrInvalidPrivacy
	}

	if existing, err := uc.projects.GetByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domerrors.ErrProjectExists
	}

	dbName := domain.DeriveDatabaseName(name)
	if err := uc.backend.EnsureDatabase(ctx, dbName); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &domain.Project{
		ID:           domain.NewProjectID(uuid.New()),
		Name:         name,
		Password:     password,
		Privacy:      privacy,
		DatabaseName: dbName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return &CreateProjectResult{Project: p}, nil
}
