package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range m {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(nil), SQLite)

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrations_SortedAndFiltered(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"002_second.sql": "SELECT 2;",
		"001_first.sql":  "SELECT 1;",
		"README.md":      "not a migration",
	}), SQLite)

	migrations, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "first" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "second" {
		t.Errorf("unexpected second migration: %+v", migrations[1])
	}
}

func TestApply_FromScratchAndIncremental(t *testing.T) {
	db := setupTestDB(t)
	fsys := files(map[string]string{
		"001_days.sql": "CREATE TABLE days (key TEXT PRIMARY KEY);",
	})

	applied, err := NewRunner(db, fsys, SQLite).Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}

	fsys["002_profiles.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE profiles (id TEXT PRIMARY KEY);")}
	runner := NewRunner(db, fsys, SQLite)
	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied on second run, got %d", applied)
	}

	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no-op, got %d applied", applied)
	}

	if _, err := db.Exec("INSERT INTO profiles (id) VALUES ('u1')"); err != nil {
		t.Errorf("profiles table missing: %v", err)
	}
}

func TestApply_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER;",
	}), SQLite)

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied before failure, got %d", applied)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the failing migration: %v", err)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after rollback, got %d", version)
	}
}

func TestValidate_NewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_a.sql": "SELECT 1;"}), SQLite)
	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate error = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.Apply(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply error = %v, want ErrSchemaTooNew", err)
	}
}

func TestMigrations_InvalidNames(t *testing.T) {
	tests := map[string]string{
		"no underscore": "001.sql",
		"non numeric":   "abc_init.sql",
		"zero version":  "000_init.sql",
		"duplicate":     "",
	}
	for name, filename := range tests {
		t.Run(name, func(t *testing.T) {
			m := map[string]string{filename: "SELECT 1;"}
			if filename == "" {
				m = map[string]string{"001_a.sql": "SELECT 1;", "01_b.sql": "SELECT 1;"}
			}
			if _, err := NewRunner(setupTestDB(t), files(m), SQLite).Migrations(); err == nil {
				t.Errorf("expected error for %v", m)
			}
		})
	}
}

func TestDialectPlaceholder(t *testing.T) {
	if got := SQLite.placeholder(1); got != "?" {
		t.Errorf("sqlite placeholder = %q", got)
	}
	if got := Postgres.placeholder(2); got != "$2" {
		t.Errorf("postgres placeholder = %q", got)
	}
}
