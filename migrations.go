package corpus

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded SQL migrations in filename order.
// Statements are idempotent so repeated runs are safe.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	entries, err := fs.Glob(migrationsFS, "data/sql/migrations/*.sql")
	if err != nil {
		return fmt.Errorf("corpus migrations: glob: %w", err)
	}
	sort.Strings(entries)

	for _, entry := range entries {
		payload, err := migrationsFS.ReadFile(entry)
		if err != nil {
			return fmt.Errorf("corpus migrations: read %s: %w", entry, err)
		}
		if _, err := db.ExecContext(ctx, string(payload)); err != nil {
			return fmt.Errorf("corpus migrations: apply %s: %w", entry, err)
		}
	}
	return nil
}
