package persistence

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/uninotice/platform/database"
)

// ApplyCoreSchemaDDL executes the embedded core schema so tests and the CLI
// bootstrap command can start from a clean database without external init
// scripts. Statements are idempotent (IF NOT EXISTS throughout).
func ApplyCoreSchemaDDL(ctx context.Context, pool *pgxpool.Pool) error {
	var lines []string
	for _, line := range strings.Split(sqlassets.CoreSchemaSQL, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	for _, raw := range strings.Split(strings.Join(lines, "\n"), ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
