package main

import (
	"context"
	"strings"
	"testing"

	"tokenpulse/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := repository.LoadMigrations(repository.MigrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 {
		t.Fatalf("expected first migration version 1, got %d", migrations[0].Version)
	}
	if migrations[1].Version != 2 {
		t.Fatalf("expected second migration version 2, got %d", migrations[1].Version)
	}
	if migrations[0].UpSQL == "" || migrations[0].DownSQL == "" {
		t.Fatal("expected non-empty up/down sql for first migration")
	}
}

func TestParseSteps(t *testing.T) {
	if n, err := parseSteps(nil); err != nil || n != 1 {
		t.Fatalf("expected default of 1, got %d (%v)", n, err)
	}
	if n, err := parseSteps([]string{"3"}); err != nil || n != 3 {
		t.Fatalf("expected 3, got %d (%v)", n, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := parseSteps([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

type versionPool struct {
	repository.MigrationPool
}

func (versionPool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (versionPool) QueryRow(context.Context, string, ...any) pgx.Row {
	return noRow{}
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

func TestRunVersionAndUnknownCommand(t *testing.T) {
	msg, err := run(context.Background(), versionPool{}, []string{cmdVersion})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "no migrations applied" {
		t.Fatalf("unexpected message %q", msg)
	}

	_, err = run(context.Background(), versionPool{}, []string{"sideways"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}
