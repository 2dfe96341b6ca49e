package query

import (
	"context"
	"strings"
	"time"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/domain"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// OperatorExecuteInput is an arbitrary SQL script for a project's database.
type OperatorExecuteInput struct {
	ProjectID domain.ProjectID
	Script    string
}

// OperatorExecuteResult carries one entry per select statement in the script.
type OperatorExecuteResult struct {
	Results []ports.StatementResult
}

// OperatorExecute runs a script with no statement restriction and no row cap.
// DDL, DML and SELECT are all permitted; the caller is the trusted operator.
type OperatorExecute struct {
	projects ports.ProjectRepository
	exec     ports.ScriptExecutor
	timeout  time.Duration
}

// NewOperatorExecute builds the use case. timeout <= 0 disables the deadline.
func NewOperatorExecute(projects ports.ProjectRepository, exec ports.ScriptExecutor, timeout time.Duration) *OperatorExecute {
	return &OperatorExecute{projects: projects, exec: exec, timeout: timeout}
}

// Execute resolves the project and runs the script against its database.
func (uc *OperatorExecute) Execute(ctx context.Context, input OperatorExecuteInput) (*OperatorExecuteResult, error) {
	script := strings.TrimSpace(input.Script)
	if script == "" {
		return nil, domerrors.ErrEmptyScript
	}
	p, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}
	results, err := uc.exec.Execute(ctx, p.DatabaseName, script, ports.ExecuteOptions{})
	if err != nil {
		return nil, err
	}
	return &OperatorExecuteResult{Results: results}, nil
}
