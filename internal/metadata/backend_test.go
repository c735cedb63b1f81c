package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "mlmd.db")
	b, err := Open(context.Background(), "sqlite", dsn, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestOpenCreatesSchemaAndSeedsEnv(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "mlmd.db")
	b, err := Open(context.Background(), "sqlite", dsn, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	var version int
	row := b.db.QueryRow("SELECT schema_version FROM MLMDEnv")
	if err := row.Scan(&version); err != nil {
		t.Fatalf("read schema_version: %v", err)
	}
	if version != supportedSchemaVersion {
		t.Errorf("schema_version = %d, want %d", version, supportedSchemaVersion)
	}
}

func TestOpenIsIdempotentAcrossReconnects(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "mlmd.db")
	b1, err := Open(context.Background(), "sqlite", dsn, Options{})
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	b1.Close()

	b2, err := Open(context.Background(), "sqlite", dsn, Options{})
	if err != nil {
		t.Fatalf("second Open on the same database file: %v", err)
	}
	defer b2.Close()

	var count int
	if err := b2.db.QueryRow("SELECT COUNT(*) FROM MLMDEnv").Scan(&count); err != nil {
		t.Fatalf("read MLMDEnv: %v", err)
	}
	if count != 1 {
		t.Errorf("MLMDEnv row count = %d, want 1 (bootstrap must not reseed on reopen)", count)
	}
}

func TestOpenRejectsSchemaVersionMismatch(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "mlmd.db")
	b, err := Open(context.Background(), "sqlite", dsn, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := b.db.Exec("UPDATE MLMDEnv SET schema_version = ?", supportedSchemaVersion+1); err != nil {
		t.Fatalf("corrupt schema_version: %v", err)
	}
	b.Close()

	_, err = Open(context.Background(), "sqlite", dsn, Options{})
	if err == nil {
		t.Fatal("expected an error reopening a database with a mismatched schema version")
	}
	me, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if me.Kind != KindSchemaVersionMismatch {
		t.Errorf("Kind = %v, want KindSchemaVersionMismatch", me.Kind)
	}
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "ignored", Options{})
	if err == nil {
		t.Fatal("expected an error for an unsupported dialect name")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := openTestBackend(t)
	if err := b.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close should not error, got %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	sentinel := newErr(KindInvalidArgument, "boom")
	err := b.withTx(ctx, "TestWithTxRollsBackOnError", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (999)"); err != nil {
			t.Fatalf("exec: %v", err)
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("withTx returned %v, want the sentinel error", err)
	}

	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM MLMDEnv WHERE schema_version = 999").Scan(&count); err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 0 {
		t.Error("a failed transaction must roll back its writes")
	}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	var id int64
	err := b.withTx(ctx, "TestWithTxCommitsOnSuccess", func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO Type (kind, name, version, description, input_type, output_type) VALUES (?, ?, ?, ?, ?, ?)",
			1, "CommitProbe", nil, nil, nil, nil)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		t.Fatalf("withTx: %v", err)
	}

	var name string
	if err := b.db.QueryRow("SELECT name FROM Type WHERE id = ?", id).Scan(&name); err != nil {
		t.Fatalf("query inserted row: %v", err)
	}
	if name != "CommitProbe" {
		t.Errorf("name = %q, want CommitProbe", name)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Error("nil error must not be a unique violation")
	}
	if !isUniqueViolation(&Error{Message: "UNIQUE constraint failed: Type.kind, Type.name, Type.version"}) {
		t.Error("SQLite's UNIQUE constraint message should be recognized")
	}
	if !isUniqueViolation(&Error{Message: "Error 1062: Duplicate entry '1-foo' for key 'idx_context_type_id_name'"}) {
		t.Error("MySQL's Duplicate entry message should be recognized")
	}
	if isUniqueViolation(&Error{Message: "no such table: Type"}) {
		t.Error("an unrelated error must not be classified as a unique violation")
	}
}
