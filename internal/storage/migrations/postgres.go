package migrations

import (
	"context"
	"fmt"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded schema. Every file uses IF NOT EXISTS,
// so running it against an existing database is a no-op.
// Postgres accepts a whole file in one Exec.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := readMigrations(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range files {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}
