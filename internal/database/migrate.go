package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// MigrationFiles lists the embedded migrations for a direction in the order
// they must run: ascending for up, descending for down.
func MigrationFiles(direction string) ([]string, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, fmt.Errorf("direction must be %q or %q, got %q", DirectionUp, DirectionDown, direction)
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	suffix := fmt.Sprintf(".%s.sql", direction)
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)
	if direction == DirectionDown {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// Migrate applies every embedded migration for direction, each in its own
// transaction, and returns how many ran.
func Migrate(ctx context.Context, db *sql.DB, direction string, log *zap.Logger) (int, error) {
	files, err := MigrationFiles(direction)
	if err != nil {
		return 0, err
	}

	for i, name := range files {
		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return i, fmt.Errorf("read migration %s: %w", name, err)
		}

		log.Info("Running migration", zap.String("file", name))
		err = WithTransaction(ctx, db, DefaultTxOptions(), func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, string(content))
			return err
		})
		if err != nil {
			return i, fmt.Errorf("execute migration %s: %w", name, err)
		}
	}

	return len(files), nil
}
