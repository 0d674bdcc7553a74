// The migrate command runs goose migrations against the configured database.
//
//	migrate up|down|status|version [args]
//	migrate create <name>
//	migrate validate
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hsallam/matjar-pos/pkg/config"
	"github.com/hsallam/matjar-pos/pkg/db"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/migrate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|status|version|create|validate> [args]")
	}
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "create":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate create <name>")
		}
		path, err := migrate.CreateSQLMigration(migrate.DefaultDir, args[0])
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(migrate.DefaultDir); err != nil {
			return err
		}
		fmt.Println("migrations valid")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "matjar-pos-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx := context.Background()
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	return migrate.Run(ctx, sqlDB, migrate.Dialect(cfg), migrate.DefaultDir, command, args...)
}
