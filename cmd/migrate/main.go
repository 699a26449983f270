package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/geolex-tech/storefront-backend/pkg/config"
	"github.com/geolex-tech/storefront-backend/pkg/db"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/migrate"
)

// Schema management for the storefront database. create and validate run
// offline; up, down, status, and version connect using the same GEOLEX_DB
// settings as the API.
func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	switch *cmd {
	case "create":
		if *name == "" {
			fatal("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fatal("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fatal("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return

	case "up", "down", "status", "version":
	default:
		fatal("unknown -cmd value: %s", *cmd)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fatal("loading config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "connecting to the storefront database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "extracting sql.DB", err)
		os.Exit(1)
	}

	if *cmd == "version" {
		if *version == "" {
			fatal("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fatal("goose version migrate failed: %v", err)
		}
		return
	}

	if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
		fatal("goose %s failed: %v", *cmd, err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
