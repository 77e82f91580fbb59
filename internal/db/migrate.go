package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded migration in file name order. Migrations are idempotent.
func Migrate(ctx context.Context, dbtx DBTX) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		content, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrationsFS.ReadFile[%s]: %w", name, err)
		}

		if _, err := dbtx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("dbtx.Exec[%s]: %w", name, err)
		}
	}

	return nil
}
