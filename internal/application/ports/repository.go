package ports

import (
	"context"

	"github.com/goldrror9999-sys/Mpdb/internal/domain"
)

// ProjectRepository defines persistence for project metadata.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, projectID domain.ProjectID) (*domain.Project, error)
	GetByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// ResolvePublic looks up a project by name, API key and published state
	// jointly. Any mismatch returns (nil, nil); callers must not learn which
	// condition failed.
	ResolvePublic(ctx context.Context, name, apiKey string) (*domain.Project, error)
	UpdateAPIKey(ctx context.Context, projectID domain.ProjectID, apiKey string) error
	UpdatePrivacy(ctx context.Context, projectID domain.ProjectID, privacy domain.Privacy) error
}
