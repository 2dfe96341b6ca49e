package project

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

type fakeProjectRepo struct {
	byName    map[string]*domain.Project
	byID      map[string]*domain.Project
	created   []*domain.Project
	createErr error
	apiKeys   map[string]string
	privacy   map[string]domain.Privacy
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		byName:  map[string]*domain.Project{},
		byID:    map[string]*domain.Project{},
		apiKeys: map[string]string{},
		privacy: map[string]domain.Privacy{},
	}
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.byName[p.Name] = p
	f.byID[p.ID.String()] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	return f.byID[id.String()], nil
}

func (f *fakeProjectRepo) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	return f.byName[name], nil
}

func (f *fakeProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	return f.created, nil
}

func (f *fakeProjectRepo) ResolvePublic(ctx context.Context, name, apiKey string) (*domain.Project, error) {
	p := f.byName[name]
	if p == nil || p.APIKey == "" || p.APIKey != apiKey || !p.Published() {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProjectRepo) UpdateAPIKey(ctx context.Context, id domain.ProjectID, key string) error {
	p := f.byID[id.String()]
	if p == nil {
		return domerrors.ErrProjectNotFound
	}
	p.APIKey = key
	f.apiKeys[id.String()] = key
	return nil
}

func (f *fakeProjectRepo) UpdatePrivacy(ctx context.Context, id domain.ProjectID, privacy domain.Privacy) error {
	p := f.byID[id.String()]
	if p == nil {
		return domerrors.ErrProjectNotFound
	}
	p.Privacy = privacy
	f.privacy[id.String()] = privacy
	return nil
}

var _ ports.ProjectRepository = (*fakeProjectRepo)(nil)

type fakeBackendAdmin struct {
	ensured   []string
	ensureErr error
	tables    []string
}

func (f *fakeBackendAdmin) EnsureDatabase(ctx context.Context, name string) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, name)
	return nil
}

func (f *fakeBackendAdmin) ListTables(ctx context.Context, name string) ([]string, error) {
	return f.tables, nil
}

var _ ports.BackendAdmin = (*fakeBackendAdmin)(nil)

func TestCreateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	backend := &fakeBackendAdmin{}
	uc := NewCreateProject(repo, backend)

	result, err := uc.Execute(context.Background(), CreateProjectInput{
		Name:     "Sales",
		Password: "pw1",
		Privacy:  domain.PrivacyPublish,
	})
	require.NoError(t, err)

	p := result.Project
	assert.Equal(t, "Sales", p.Name)
	assert.Equal(t, "proj_Sales", p.DatabaseName)
	assert.Equal(t, domain.PrivacyPublish, p.Privacy)
	assert.Equal(t, "pw1", p.Password)
	assert.Empty(t, p.APIKey, "no key until explicitly generated")

	require.Len(t, backend.ensured, 1)
	assert.Equal(t, "proj_Sales", backend.ensured[0])
	require.Len(t, repo.created, 1)
}

func TestCreateProjectDefaultsToPrivate(t *testing.T) {
	repo := newFakeProjectRepo()
	uc := NewCreateProject(repo, &fakeBackendAdmin{})

	result, err := uc.Execute(context.Background(), CreateProjectInput{Name: "x", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.PrivacyPrivate, result.Project.Privacy)
}

func TestCreateProjectValidatesInput(t *testing.T) {
	uc := NewCreateProject(newFakeProjectRepo(), &fakeBackendAdmin{})

	_, err := uc.Execute(context.Background(), CreateProjectInput{Name: "", Password: "pw"})
	assert.ErrorIs(t, err, domerrors.ErrNameAndPasswordRequired)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Name: "x", Password: "  "})
	assert.ErrorIs(t, err, domerrors.ErrNameAndPasswordRequired)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Name: "x", Password: "pw", Privacy: "published"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidPrivacy)
}

func TestCreateProjectRejectsDuplicateName(t *testing.T) {
	repo := newFakeProjectRepo()
	backend := &fakeBackendAdmin{}
	uc := NewCreateProject(repo, backend)

	_, err := uc.Execute(context.Background(), CreateProjectInput{Name: "Sales", Password: "pw"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Name: "Sales", Password: "pw2"})
	assert.ErrorIs(t, err, domerrors.ErrProjectExists)
	assert.Len(t, backend.ensured, 1, "no second database provisioned")
}

func TestCreateProjectSurfacesSanitizedCollision(t *testing.T) {
	repo := newFakeProjectRepo()
	repo.createErr = domerrors.ErrDatabaseNameCollision
	uc := NewCreateProject(repo, &fakeBackendAdmin{})

	_, err := uc.Execute(context.Background(), CreateProjectInput{Name: "My!Proj", Password: "pw"})
	assert.ErrorIs(t, err, domerrors.ErrDatabaseNameCollision)
}

func TestCreateProjectBackendFailureStopsMetadataWrite(t *testing.T) {
	repo := newFakeProjectRepo()
	backend := &fakeBackendAdmin{ensureErr: errors.New("server gone")}
	uc := NewCreateProject(repo, backend)

	_, err := uc.Execute(context.Background(), CreateProjectInput{Name: "x", Password: "pw"})
	require.Error(t, err)
	assert.Empty(t, repo.created, "metadata row must not exist without its database")
}
