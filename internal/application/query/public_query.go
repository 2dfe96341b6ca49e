package query

import (
	"context"
	"strings"
	"time"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
	"github.com/goldrror9999-sys/Mpdb/internal/sqlscan"
)

// DefaultPublicRowCap bounds result sets on the public path.
const DefaultPublicRowCap = 500

// PublicQueryInput is the key-authenticated read request from an external
// consumer.
type PublicQueryInput struct {
	ProjectName string
	APIKey      string
	SQL         string
}

// PublicQueryResult is a single flattened result set. Columns is empty when
// there are no rows (pinned wire contract).
type PublicQueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// PublicQuery is the restricted access path: joint credential resolution,
// read-only statement gating and a forced row cap. Resolution failure is a
// single undifferentiated ErrAccessDenied regardless of which of name, key or
// published state mismatched.
type PublicQuery struct {
	projects ports.ProjectRepository
	exec     ports.ScriptExecutor
	rowCap   int
	timeout  time.Duration
}

// NewPublicQuery builds the use case. rowCap <= 0 falls back to the default;
// timeout <= 0 disables the deadline.
func NewPublicQuery(projects ports.ProjectRepository, exec ports.ScriptExecutor, rowCap int, timeout time.Duration) *PublicQuery {
	if rowCap <= 0 {
		rowCap = DefaultPublicRowCap
	}
	return &PublicQuery{projects: projects, exec: exec, rowCap: rowCap, timeout: timeout}
}

// Execute resolves, gates and runs the query. Only the first result set
// reaches the response; callers are expected to submit one statement
// (documented single-result-set contract).
func (uc *PublicQuery) Execute(ctx context.Context, input PublicQueryInput) (*PublicQueryResult, error) {
	sql := strings.TrimSpace(input.SQL)
	p, err := uc.projects.ResolvePublic(ctx, input.ProjectName, input.APIKey)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrAccessDenied
	}
	if !sqlscan.IsReadOnly(sql) {
		return nil, domerrors.ErrInvalidQuery
	}
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}
	rowCap := uc.rowCap
	results, err := uc.exec.Execute(ctx, p.DatabaseName, sql, ports.ExecuteOptions{RowCap: &rowCap})
	if err != nil {
		return nil, err
	}
	out := &PublicQueryResult{Columns: []string{}, Rows: []map[string]any{}}
	if len(results) > 0 {
		first := results[0]
		out.Rows = first.Rows
		if len(first.Rows) > 0 {
			out.Columns = first.Columns
		}
	}
	return out, nil
}
