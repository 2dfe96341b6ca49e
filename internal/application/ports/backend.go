package ports

import "context"

// BackendAdmin provisions and inspects databases on the shared backend server.
// A single fixed administrative credential set is used for every call; logical
// isolation between projects is by database name only.
type BackendAdmin interface {
	// EnsureDatabase idempotently creates the named database with the fixed
	// character set and collation.
	EnsureDatabase(ctx context.Context, name string) error
	// ListTables returns the ordered table names visible in the database.
	// A database with no tables yields an empty slice, not an error.
	ListTables(ctx context.Context, name string) ([]string, error)
}

// ExecuteOptions controls a single script execution.
type ExecuteOptions struct {
	// RowCap, when non-nil, appends a LIMIT clause to select statements that
	// do not already contain one.
	RowCap *int
}

// StatementResult is the recorded outcome of one select statement. Statements
// that produce no result set (DDL, DML) are absent from the result sequence.
type StatementResult struct {
	Statement string
	Columns   []string
	Rows      []map[string]any
}

// ScriptExecutor runs a multi-statement script against one project's database.
// Execution is all-or-nothing per invocation: any statement error aborts the
// remaining statements and discards results already fetched. Read-only gating
// is the caller's responsibility; the executor does not re-check.
type ScriptExecutor interface {
	Execute(ctx context.Context, databaseName, script string, opts ExecuteOptions) ([]StatementResult, error)
}
