package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	format TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS processing_outcomes (
	document_id TEXT PRIMARY KEY REFERENCES documents(id),
	doc_type TEXT NOT NULL,
	verdict_status TEXT NOT NULL,
	billing_ready BOOLEAN NOT NULL,
	quality_rejected BOOLEAN NOT NULL,
	degraded BOOLEAN NOT NULL,
	composite_quality DOUBLE PRECISION NOT NULL,
	payload JSONB NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	elapsed_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_verdict ON processing_outcomes(verdict_status);
CREATE INDEX IF NOT EXISTS idx_outcomes_created_at ON processing_outcomes(created_at DESC);

CREATE TABLE IF NOT EXISTS reference_samples (
	label TEXT PRIMARY KEY,
	doc_type TEXT NOT NULL,
	embedding JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
