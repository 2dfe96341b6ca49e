package project

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// GenerateAPIKeyInput is the project ID to generate a key for.
type GenerateAPIKeyInput struct {
	ProjectID domain.ProjectID
}

// GenerateAPIKeyResult returns the new API key.
type GenerateAPIKeyResult struct {
	APIKey string
}

// GenerateAPIKey overwrites the project's API key with a fresh random value.
// A single key is active per project; the previous key stops working
// immediately, with no rollback.
type GenerateAPIKey struct {
	projects ports.ProjectRepository
}

// NewGenerateAPIKey builds the use case.
func NewGenerateAPIKey(projects ports.ProjectRepository) *GenerateAPIKey {
	return &GenerateAPIKey{projects: projects}
}

// Execute generates and stores the new key.
func (uc *GenerateAPIKey) Execute(ctx context.Context, input GenerateAPIKeyInput) (*GenerateAPIKeyResult, error) {
	p, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	key, err := generateAPIKey()
	if err != nil {
		return nil, err
	}
	if err := uc.projects.UpdateAPIKey(ctx, input.ProjectID, key); err != nil {
		return nil, err
	}
	return &GenerateAPIKeyResult{APIKey: key}, nil
}

func generateAPIKey() (string, error) {
	b := make([]byte, 28)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
