package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_orders.sql", "001_init.sql", "README.md", "010_index.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := getMigrationFiles(dir)
	if err != nil {
		t.Fatalf("getMigrationFiles returned error: %v", err)
	}
	want := []string{"001_init.sql", "002_orders.sql", "010_index.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestGetMigrationFiles_RepositoryMigrations(t *testing.T) {
	files, err := getMigrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("getMigrationFiles returned error: %v", err)
	}
	if len(files) == 0 || files[0] != "001_init.sql" {
		t.Errorf("expected 001_init.sql first, got %v", files)
	}
}

func TestGetMigrationFiles_MissingDir(t *testing.T) {
	if _, err := getMigrationFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
