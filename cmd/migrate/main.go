// Command migrate applies or rolls back the schema of the postgres cart
// storage backend.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate [up|down]")
		os.Exit(2)
	}
	direction := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Log.Level == "warn" {
		cfg.Log.Level = "info"
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), cfg, direction, log); err != nil {
		log.Error("Migration failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, direction string, log *zap.Logger) error {
	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db, direction, log)
	if err != nil {
		return err
	}
	log.Info("Migrations complete", zap.String("direction", direction), zap.Int("applied", applied))
	return nil
}
