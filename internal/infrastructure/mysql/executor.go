package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	"github.com/goldrror9999-sys/Mpdb/internal/sqlscan"
)

// Executor runs scripts against one project's database over a scoped
// connection from the Admin. All-or-nothing per invocation: the first failing
// statement aborts the script and discards prior results. Statement gating
// (read-only checks) happens upstream; the executor runs what it is given.
type Executor struct {
	admin *Admin
}

// NewExecutor creates a script executor backed by the given administrator.
func NewExecutor(admin *Admin) *Executor {
	return &Executor{admin: admin}
}

// Execute splits the script, runs each statement in order and records one
// StatementResult per select statement. Non-select statements leave no entry.
func (e *Executor) Execute(ctx context.Context, databaseName, script string, opts ports.ExecuteOptions) ([]ports.StatementResult, error) {
	stmts := sqlscan.SplitStatements(script)
	db, err := e.admin.Open(ctx, databaseName)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	results := []ports.StatementResult{}
	for _, stmt := range stmts {
		if !sqlscan.IsSelect(stmt) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return nil, err
			}
			continue
		}
		if opts.RowCap != nil && !sqlscan.ContainsLimit(stmt) {
			stmt = fmt.Sprintf("%s LIMIT %d", stmt, *opts.RowCap)
		}
		res, err := fetchAll(ctx, db, stmt)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// fetchAll reads the full result set of one select statement into maps keyed
// by column name, with the driver's column order preserved alongside.
func fetchAll(ctx context.Context, db *sql.DB, stmt string) (ports.StatementResult, error) {
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return ports.StatementResult{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return ports.StatementResult{}, err
	}
	out := ports.StatementResult{Statement: stmt, Columns: cols, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return ports.StatementResult{}, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeValue(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return ports.StatementResult{}, err
	}
	return out, nil
}

// normalizeValue makes driver values JSON-friendly; the MySQL driver returns
// text columns as []byte.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

var _ ports.ScriptExecutor = (*Executor)(nil)
