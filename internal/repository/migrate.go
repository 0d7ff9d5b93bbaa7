package repository

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

// Schema returns the DDL for a driver.
func Schema(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return postgresSchema, nil
	case DriverSQLite:
		return sqliteSchema, nil
	default:
		return "", fmt.Errorf("unknown store driver %q", driver)
	}
}

// execer 由 *pgxpool.Pool 适配与 *sql.DB 适配共同实现
type execer func(ctx context.Context, stmt string) error

// migrate applies the schema statement by statement. Every statement is idempotent.
func migrate(ctx context.Context, driver string, exec execer) error {
	schema, err := Schema(driver)
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(schema) {
		if err := exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", driver, err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var out []string
	for _, stmt := range strings.Split(schema, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
