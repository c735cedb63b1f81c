package metadata

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Backend owns the database connection and serializes the bootstrap
// check against concurrent callers. Every public operation on Backend
// opens its own transaction; Backend itself holds no transactional
// state between calls. Implements: spec §4.1, §4.7 "Transactions".
type Backend struct {
	mu      sync.Mutex
	db      *sql.DB
	dialect dialect
	clock   Clock
	retries int
	tracer  trace.Tracer
}

// Open connects to dsn using the named dialect ("sqlite" or "mysql"),
// verifying the schema version if MLMDEnv already has a row or creating
// the full schema and seeding MLMDEnv otherwise. Implements: spec §4.1
// "Schema bootstrap".
func Open(ctx context.Context, dialectName, dsn string, opts Options) (*Backend, error) {
	d, err := dialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialectName, dsn)
	if err != nil {
		return nil, wrapErr(KindIO, err, "open %s database", dialectName)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapErr(KindIO, err, "connect to %s database", dialectName)
	}

	b := &Backend{
		db:      db,
		dialect: d,
		clock:   opts.clock(),
		retries: opts.maxRetries(),
		tracer:  otel.Tracer("github.com/mesh-intelligence/mlmd-go/internal/metadata"),
	}
	if err := b.bootstrap(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Close releases the database connection. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// bootstrap creates the schema on a fresh database, or checks the
// existing MLMDEnv row against supportedSchemaVersion otherwise.
func (b *Backend) bootstrap(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var count int
	// MLMDEnv only exists once the schema has been created; probing for
	// the table itself would be dialect-specific, so instead we attempt
	// the CREATE TABLE IF NOT EXISTS statements unconditionally and then
	// check MLMDEnv's row count, which works identically on both dialects.
	for _, stmt := range b.dialect.schemaDDL() {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return wrapErr(KindIO, err, "create schema")
		}
	}

	row := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM MLMDEnv")
	if err := row.Scan(&count); err != nil {
		return wrapErr(KindIO, err, "read MLMDEnv")
	}

	if count == 0 {
		for _, stmt := range b.dialect.indexDDL() {
			if _, err := b.db.ExecContext(ctx, stmt); err != nil {
				return wrapErr(KindIO, err, "create indexes")
			}
		}
		if _, err := b.db.ExecContext(ctx, "INSERT INTO MLMDEnv (schema_version) VALUES (?)", supportedSchemaVersion); err != nil {
			return wrapErr(KindIO, err, "seed MLMDEnv")
		}
		return nil
	}

	var version int
	row = b.db.QueryRowContext(ctx, "SELECT schema_version FROM MLMDEnv LIMIT 1")
	if err := row.Scan(&version); err != nil {
		return wrapErr(KindIO, err, "read schema_version")
	}
	if version != supportedSchemaVersion {
		return newErr(KindSchemaVersionMismatch, "database schema version %d, supported version is %d", version, supportedSchemaVersion)
	}
	return nil
}

// correlationID returns a UUIDv7 string, or a random UUID if V7
// generation fails; it has no relation to any persisted row id. withTx
// does not attach it to spans, and nothing in this package logs it.
func correlationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// withTx runs fn inside a transaction, committing on success and rolling
// back if fn returns a non-nil error or panics. Implements: spec §4.7
// "Transactions" (one operation, one transaction, rollback on any error).
func (b *Backend) withTx(ctx context.Context, spanName string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, span := b.tracer.Start(ctx, spanName)
	defer span.End()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(KindIO, err, "begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr(KindIO, err, "commit transaction")
	}
	committed = true
	return nil
}

// isUniqueViolation reports whether err looks like a unique-constraint
// failure under either supported driver. Both modernc.org/sqlite and
// go-sql-driver/mysql surface this as a plain string-prefixed error
// rather than a typed sentinel, so the check is textual.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "constraint failed")
}
