package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is a single schema migration, embedded in the binary so the
// server needs no migrations directory at deploy time.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations is the ordered schema for export/report history persistence.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "export_jobs",
		SQL: `
CREATE TABLE IF NOT EXISTS export_job (
    id UUID PRIMARY KEY,
    format VARCHAR(32) NOT NULL,
    record_types TEXT[] NOT NULL,
    range_start DATE NOT NULL,
    range_end DATE NOT NULL,
    status VARCHAR(16) NOT NULL,
    file_size BIGINT,
    download_url TEXT,
    failure_reason TEXT,
    expires_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS export_job_created_idx ON export_job (created_at DESC);`,
	},
	{
		Version: 2,
		Name:    "share_links",
		SQL: `
CREATE TABLE IF NOT EXISTS share_link (
    token UUID PRIMARY KEY,
    export_id UUID NOT NULL REFERENCES export_job (id) ON DELETE CASCADE,
    url TEXT NOT NULL,
    recipient TEXT,
    password TEXT,
    max_access_count INTEGER,
    access_count INTEGER NOT NULL DEFAULT 0,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Version: 3,
		Name:    "generated_reports",
		SQL: `
CREATE TABLE IF NOT EXISTS generated_report (
    id UUID PRIMARY KEY,
    template_id VARCHAR(64) NOT NULL,
    title TEXT NOT NULL,
    format VARCHAR(32) NOT NULL,
    include_charts BOOLEAN NOT NULL,
    include_summary BOOLEAN NOT NULL,
    sections JSONB NOT NULL,
    total_pages INTEGER,
    section_count INTEGER NOT NULL,
    data_points INTEGER NOT NULL,
    range_start TIMESTAMPTZ NOT NULL,
    range_end TIMESTAMPTZ NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS generated_report_generated_idx ON generated_report (generated_at DESC);`,
	},
}

// Migrator applies the embedded migrations against a PostgreSQL database,
// tracking applied versions in a _migrations table.
type Migrator struct {
	pool *pgxpool.Pool
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS _migrations (
    version INTEGER PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("create _migrations table: %w", err)
	}
	return nil
}

// AppliedVersions returns the versions already recorded in _migrations.
func (m *Migrator) AppliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Up applies all pending migrations in order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.AppliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range Migrations {
		if applied[mig.Version] {
			continue
		}
		tx, err := m.pool.Begin(ctx)
		if err != nil {
			return count, fmt.Errorf("begin migration %d: %w", mig.Version, err)
		}
		if _, err := tx.Exec(ctx, mig.SQL); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO _migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
			mig.Version, mig.Name, time.Now()); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("record migration %d: %w", mig.Version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return count, fmt.Errorf("commit migration %d: %w", mig.Version, err)
		}
		count++
	}
	return count, nil
}
