package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

type fakeRepo struct {
	projects []*domain.Project
}

func (f *fakeRepo) Create(ctx context.Context, p *domain.Project) error { return nil }

func (f *fakeRepo) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	for _, p := range f.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*domain.Project, error) { return f.projects, nil }

func (f *fakeRepo) ResolvePublic(ctx context.Context, name, apiKey string) (*domain.Project, error) {
	for _, p := range f.projects {
		if p.Name == name && p.APIKey != "" && p.APIKey == apiKey && p.Published() {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateAPIKey(ctx context.Context, id domain.ProjectID, key string) error {
	return nil
}

func (f *fakeRepo) UpdatePrivacy(ctx context.Context, id domain.ProjectID, privacy domain.Privacy) error {
	return nil
}

var _ ports.ProjectRepository = (*fakeRepo)(nil)

type fakeExecutor struct {
	calls    int
	database string
	script   string
	opts     ports.ExecuteOptions
	results  []ports.StatementResult
	err      error
}

func (f *fakeExecutor) Execute(ctx context.Context, databaseName, script string, opts ports.ExecuteOptions) ([]ports.StatementResult, error) {
	f.calls++
	f.database = databaseName
	f.script = script
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

var _ ports.ScriptExecutor = (*fakeExecutor)(nil)

func published(name, key string) *domain.Project {
	return &domain.Project{
		ID:           domain.NewProjectID(uuid.New()),
		Name:         name,
		Password:     "pw",
		Privacy:      domain.PrivacyPublish,
		DatabaseName: domain.DeriveDatabaseName(name),
		APIKey:       key,
	}
}

func TestPublicQuerySuccess(t *testing.T) {
	repo := &fakeRepo{projects: []*domain.Project{published("Sales", "key1")}}
	exec := &fakeExecutor{results: []ports.StatementResult{{
		Statement: "select * from customers LIMIT 500",
		Columns:   []string{"id", "name"},
		Rows:      []map[string]any{{"id": int64(1), "name": "acme"}},
	}}}
	uc := NewPublicQuery(repo, exec, 500, time.Second)

	result, err := uc.Execute(context.Background(), PublicQueryInput{
		ProjectName: "Sales",
		APIKey:      "key1",
		SQL:         "select * from customers",
	})
	require.NoError(t, err)

	assert.Equal(t, "proj_Sales", exec.database)
	require.NotNil(t, exec.opts.RowCap)
	assert.Equal(t, 500, *exec.opts.RowCap)
	assert.Equal(t, []string{"id", "name"}, result.Columns)
	require.Len(t, result.Rows, 1)
}

func TestPublicQueryAccessDenied(t *testing.T) {
	p := published("Sales", "key1")
	unpublished := published("Internal", "key2")
	unpublished.Privacy = domain.PrivacyPrivate
	repo := &fakeRepo{projects: []*domain.Project{p, unpublished}}

	tests := []struct {
		name  string
		input PublicQueryInput
	}{
		{"wrong key", PublicQueryInput{ProjectName: "Sales", APIKey: "bad", SQL: "select 1"}},
		{"unknown project", PublicQueryInput{ProjectName: "Nope", APIKey: "key1", SQL: "select 1"}},
		{"not published", PublicQueryInput{ProjectName: "Internal", APIKey: "key2", SQL: "select 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			uc := NewPublicQuery(repo, exec, 500, 0)
			_, err := uc.Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, domerrors.ErrAccessDenied)
			assert.Zero(t, exec.calls, "executor must not run")
		})
	}
}

func TestPublicQueryRejectsNonSelect(t *testing.T) {
	repo := &fakeRepo{projects: []*domain.Project{published("Sales", "key1")}}
	exec := &fakeExecutor{}
	uc := NewPublicQuery(repo, exec, 500, 0)

	for _, sql := range []string{
		"delete from customers",
		"select 1; drop table customers",
		"",
	} {
		_, err := uc.Execute(context.Background(), PublicQueryInput{ProjectName: "Sales", APIKey: "key1", SQL: sql})
		assert.ErrorIs(t, err, domerrors.ErrInvalidQuery, "sql: %q", sql)
	}
	assert.Zero(t, exec.calls)
}

func TestPublicQueryNoRowsMeansNoColumns(t *testing.T) {
	repo := &fakeRepo{projects: []*domain.Project{published("Sales", "key1")}}
	exec := &fakeExecutor{results: []ports.StatementResult{{
		Statement: "select * from empty_table LIMIT 500",
		Columns:   []string{"id"},
		Rows:      []map[string]any{},
	}}}
	uc := NewPublicQuery(repo, exec, 500, 0)

	result, err := uc.Execute(context.Background(), PublicQueryInput{ProjectName: "Sales", APIKey: "key1", SQL: "select * from empty_table"})
	require.NoError(t, err)
	assert.Empty(t, result.Columns)
	assert.Empty(t, result.Rows)
}

func TestPublicQueryReturnsFirstResultSetOnly(t *testing.T) {
	repo := &fakeRepo{projects: []*domain.Project{published("Sales", "key1")}}
	exec := &fakeExecutor{results: []ports.StatementResult{
		{Statement: "select 1", Columns: []string{"a"}, Rows: []map[string]any{{"a": int64(1)}}},
		{Statement: "select 2", Columns: []string{"b"}, Rows: []map[string]any{{"b": int64(2)}}},
	}}
	uc := NewPublicQuery(repo, exec, 500, 0)

	result, err := uc.Execute(context.Background(), PublicQueryInput{ProjectName: "Sales", APIKey: "key1", SQL: "select 1; select 2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Columns)
	require.Len(t, result.Rows, 1)
}

func TestPublicQueryExecutionErrorPropagates(t *testing.T) {
	repo := &fakeRepo{projects: []*domain.Project{published("Sales", "key1")}}
	exec := &fakeExecutor{err: errors.New("table 'proj_Sales.nope' doesn't exist")}
	uc := NewPublicQuery(repo, exec, 500, 0)

	_, err := uc.Execute(context.Background(), PublicQueryInput{ProjectName: "Sales", APIKey: "key1", SQL: "select * from nope"})
	assert.EqualError(t, err, "table 'proj_Sales.nope' doesn't exist")
}

func TestOperatorExecuteUnrestricted(t *testing.T) {
	p := published("Sales", "")
	repo := &fakeRepo{projects: []*domain.Project{p}}
	exec := &fakeExecutor{results: []ports.StatementResult{}}
	uc := NewOperatorExecute(repo, exec, time.Second)

	result, err := uc.Execute(context.Background(), OperatorExecuteInput{
		ProjectID: p.ID,
		Script:    "create table t (id int); insert into t values (1)",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, "proj_Sales", exec.database)
	assert.Nil(t, exec.opts.RowCap, "no row cap on the operator path")
}

func TestOperatorExecuteEmptyScript(t *testing.T) {
	uc := NewOperatorExecute(&fakeRepo{}, &fakeExecutor{}, 0)
	_, err := uc.Execute(context.Background(), OperatorExecuteInput{ProjectID: domain.NewProjectID(uuid.New()), Script: "   "})
	assert.ErrorIs(t, err, domerrors.ErrEmptyScript)
}

func TestOperatorExecuteUnknownProject(t *testing.T) {
	exec := &fakeExecutor{}
	uc := NewOperatorExecute(&fakeRepo{}, exec, 0)
	_, err := uc.Execute(context.Background(), OperatorExecuteInput{ProjectID: domain.NewProjectID(uuid.New()), Script: "select 1"})
	assert.ErrorIs(t, err, domerrors.ErrProjectNotFound)
	assert.Zero(t, exec.calls)
}
