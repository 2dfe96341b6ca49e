// Package mysql talks to the shared backend server with a fixed administrative
// credential set. Connections are opened per call and closed when the call
// returns; the Admin type is the seam where per-project pooling would go.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"github.com/goldrror9999-sys/Mpdb/internal/application/ports"
	domerrors "github.com/goldrror9999-sys/Mpdb/internal/domain/errors"
)

// ER_BAD_DB_ERROR: the named database does not exist.
const errBadDB = 1049

// Config holds the backend server address and admin credentials.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Admin provisions and inspects databases on the shared backend server.
type Admin struct {
	cfg Config
}

// NewAdmin creates a backend administrator.
func NewAdmin(cfg Config) *Admin {
	return &Admin{cfg: cfg}
}

var safeDatabaseName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func (a *Admin) dsn(database string) string {
	mc := mysql.NewConfig()
	mc.User = a.cfg.User
	mc.Passwd = a.cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port)
	mc.DBName = database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Open returns a connection scoped to exactly one database. The caller must
// close it. Fails with ErrDatabaseNotFound if the database does not exist.
func (a *Admin) Open(ctx context.Context, database string) (*sql.DB, error) {
	db, err := sql.Open("mysql", a.dsn(database))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, mapBackendError(err)
	}
	return db, nil
}

// EnsureDatabase idempotently creates the database with the fixed character
// set and collation. The name must already be sanitized ([A-Za-z0-9_]+).
func (a *Admin) EnsureDatabase(ctx context.Context, name string) error {
	if !safeDatabaseName.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	db, err := a.Open(ctx, "")
	if err != nil {
		return err
	}
	defer db.Close()
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", name)
	_, err = db.ExecContext(ctx, stmt)
	return err
}

// ListTables returns the ordered table names in the database; an empty slice
// when the database has no tables.
func (a *Admin) ListTables(ctx context.Context, name string) ([]string, error) {
	db, err := a.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, mapBackendError(err)
	}
	defer rows.Close()
	tables := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Ping checks reachability of the backend server.
func (a *Admin) Ping(ctx context.Context) error {
	db, err := a.Open(ctx, "")
	if err != nil {
		return err
	}
	return db.Close()
}

func mapBackendError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == errBadDB {
		return fmt.Errorf("%w: %s", domerrors.ErrDatabaseNotFound, me.Message)
	}
	return err
}

var _ ports.BackendAdmin = (*Admin)(nil)
