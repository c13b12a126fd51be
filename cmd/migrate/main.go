package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"tokenpulse/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	cmdUp      = "up"
	cmdDown    = "down"
	cmdVersion = "version"
)

const usage = "usage: go run ./cmd/migrate [up|down|version] [steps]"

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

func main() {
	loadEnvFunc()

	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	dsn := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	msg, err := run(ctx, pool, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	log.Println(msg)
}

func run(ctx context.Context, pool repository.MigrationPool, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New(usage)
	}
	if err := repository.EnsureMigrationTable(ctx, pool); err != nil {
		return "", fmt.Errorf("ensure schema_migrations table: %w", err)
	}
	migrations, err := repository.LoadMigrations(repository.MigrationsFS)
	if err != nil {
		return "", fmt.Errorf("load migrations: %w", err)
	}

	switch args[0] {
	case cmdUp:
		applied, err := repository.ApplyUp(ctx, pool, migrations)
		if err != nil {
			return "", fmt.Errorf("apply migrations up: %w", err)
		}
		return fmt.Sprintf("migrations up complete (%d applied)", applied), nil
	case cmdDown:
		steps, err := parseSteps(args[1:])
		if err != nil {
			return "", err
		}
		rolledBack, err := repository.ApplyDown(ctx, pool, migrations, steps)
		if err != nil {
			return "", fmt.Errorf("apply migrations down: %w", err)
		}
		return fmt.Sprintf("migrations down complete (%d rolled back)", rolledBack), nil
	case cmdVersion:
		version, name, err := repository.CurrentVersion(ctx, pool)
		if err != nil {
			return "", fmt.Errorf("read current version: %w", err)
		}
		if version == 0 {
			return "no migrations applied", nil
		}
		return fmt.Sprintf("current version: %d (%s)", version, name), nil
	default:
		return "", fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid down steps: %q", args[0])
	}
	return n, nil
}
