package driver

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestNewDriver(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"invalid", Dialect("invalid"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv, err := New(tt.dialect)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if drv == nil {
				t.Error("expected driver, got nil")
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"sqlite3", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"postgresql", DialectPostgres, false},
		{"pg", DialectPostgres, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostgresDialectHelpers(t *testing.T) {
	drv := NewPostgres()
	if drv.Placeholder(3) != "$3" {
		t.Errorf("Placeholder(3) = %q, want $3", drv.Placeholder(3))
	}
	if drv.Now() != "NOW()" {
		t.Errorf("Now() = %q, want NOW()", drv.Now())
	}
	if drv.BlobType() != "BYTEA" {
		t.Errorf("BlobType() = %q, want BYTEA", drv.BlobType())
	}
	if err := drv.Close(); err != nil {
		t.Errorf("Close without Open failed: %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	got := PostgresDSN("db.local", 5432, "tasks", "alice", "s3cret", "disable")
	want := "host=db.local port=5432 dbname=tasks user=alice password=s3cret sslmode=disable"
	if got != want {
		t.Errorf("PostgresDSN() = %q, want %q", got, want)
	}

	got = PostgresDSN("localhost", 5432, "tasks", "bob", "", "")
	if got != "host=localhost port=5432 dbname=tasks user=bob" {
		t.Errorf("PostgresDSN() without password = %q", got)
	}
}

func TestSQLiteDriver(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	drv := NewSQLite()
	if err := drv.Open(dbPath); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = drv.Close() }()

	if drv.Dialect() != DialectSQLite {
		t.Errorf("Dialect() = %v, want %v", drv.Dialect(), DialectSQLite)
	}
	if drv.Placeholder(1) != "?" {
		t.Errorf("Placeholder(1) = %v, want ?", drv.Placeholder(1))
	}
	if drv.BlobType() != "BLOB" {
		t.Errorf("BlobType() = %v, want BLOB", drv.BlobType())
	}

	ctx := context.Background()
	if _, err := drv.Exec(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("Exec CREATE TABLE failed: %v", err)
	}
	if _, err := drv.Exec(ctx, "INSERT INTO test (name) VALUES (?)", "hello"); err != nil {
		t.Fatalf("Exec INSERT failed: %v", err)
	}

	var name string
	if err := drv.QueryRow(ctx, "SELECT name FROM test WHERE id = ?", 1).Scan(&name); err != nil {
		t.Fatalf("QueryRow Scan failed: %v", err)
	}
	if name != "hello" {
		t.Errorf("got %q, want 'hello'", name)
	}
}

// mapSchemaFS adapts fstest.MapFS to SchemaFS.
type mapSchemaFS struct {
	fs fstest.MapFS
}

func (m mapSchemaFS) ReadDir(name string) ([]DirEntry, error) {
	entries, err := fs.ReadDir(m.fs, name)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out, nil
}

func (m mapSchemaFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.fs, name)
}

func TestSQLiteDriver_Migrate(t *testing.T) {
	schemas := mapSchemaFS{fs: fstest.MapFS{
		"schema/notes_001.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);")},
		"schema/notes_002.sql": {Data: []byte("ALTER TABLE notes ADD COLUMN pinned INTEGER DEFAULT 0;")},
		"schema/other_001.sql": {Data: []byte("CREATE TABLE other (id INTEGER);")},
	}}

	drv := NewSQLite()
	if err := drv.Open(":memory:"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = drv.Close() }()

	ctx := context.Background()
	if err := drv.Migrate(ctx, schemas, "notes"); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	// Second run is a no-op: ALTER TABLE would fail if re-applied.
	if err := drv.Migrate(ctx, schemas, "notes"); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	if _, err := drv.Exec(ctx, "INSERT INTO notes (body, pinned) VALUES (?, ?)", "x", 1); err != nil {
		t.Errorf("notes table missing migrated column: %v", err)
	}

	var count int
	if err := drv.QueryRow(ctx, "SELECT COUNT(*) FROM _migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("applied migrations = %d, want 2", count)
	}

	err := drv.QueryRow(ctx, "SELECT COUNT(*) FROM other").Scan(&count)
	if err == nil {
		t.Error("other_* migrations should not be applied for schema type notes")
	}
}

func TestSQLiteDriver_MigrateMissingDir(t *testing.T) {
	drv := NewSQLite()
	if err := drv.Open(":memory:"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = drv.Close() }()

	err := drv.Migrate(context.Background(), mapSchemaFS{fs: fstest.MapFS{}}, "kv")
	if err == nil || errors.Is(err, context.Canceled) {
		t.Errorf("expected read schema dir error, got %v", err)
	}
}

func TestExtractVersion(t *testing.T) {
	if v := extractVersion("kv_007.sql", "kv_"); v != 7 {
		t.Errorf("extractVersion = %d, want 7", v)
	}
}

func TestSQLiteDriver_Close(t *testing.T) {
	drv := NewSQLite()
	if err := drv.Close(); err != nil {
		t.Errorf("Close without Open failed: %v", err)
	}
}
