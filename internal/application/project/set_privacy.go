package project

import (
	"context"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// SetPrivacyInput is the project and the privacy state to move to.
type SetPrivacyInput struct {
	ProjectID domain.ProjectID
	Privacy   domain.Privacy
}

// SetPrivacy toggles a project between Private and Publish. The operator may
// flip the state at any time.
type SetPrivacy struct {
	projects ports.ProjectRepository
}

// NewSetPrivacy builds the use case.
func NewSetPrivacy(projects ports.ProjectRepository) *SetPrivacy {
	return &SetPrivacy{projects: projects}
}

// Execute updates the privacy state.
func (uc *SetPrivacy) Execute(ctx context.Context, input SetPrivacyInput) error {
	if !input.Privacy.Valid() {
		return domerrors.ErrInvalidPrivacy
	}
	return uc.projects.UpdatePrivacy(ctx, input.ProjectID, input.Privacy)
}
