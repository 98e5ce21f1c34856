package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaVersion is the single schema the service speaks. The check runs once
// at startup; request handlers never branch on storage shape.
const schemaVersion = 1

func NewPool(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return pool, nil
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		name TEXT NOT NULL,
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bin_locations (
		id UUID PRIMARY KEY,
		warehouse_id UUID NOT NULL REFERENCES warehouses(id),
		code TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (warehouse_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS managers (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		warehouse_id UUID NOT NULL REFERENCES warehouses(id),
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (company_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_takes (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		warehouse_id UUID NOT NULL REFERENCES warehouses(id),
		opened_by_manager_id UUID REFERENCES managers(id),
		notes TEXT,
		status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
		opened_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		closed_at TIMESTAMPTZ
	)`,
	// The single-open invariant: concurrent opens for the same pair cannot
	// both commit.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_stock_takes_open
		ON stock_takes (company_id, warehouse_id)
		WHERE status = 'open'`,
	`CREATE TABLE IF NOT EXISTS bin_location_counts (
		id UUID PRIMARY KEY,
		stock_take_id UUID NOT NULL REFERENCES stock_takes(id),
		bin_location_id UUID NOT NULL REFERENCES bin_locations(id),
		item_code TEXT NOT NULL,
		item_name TEXT,
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		counted_by_manager_id UUID REFERENCES managers(id),
		submitted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		submitted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS ix_bin_counts_bin_take
		ON bin_location_counts (bin_location_id, stock_take_id)
		WHERE submitted = FALSE`,
	`CREATE TABLE IF NOT EXISTS stock_items (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL REFERENCES companies(id),
		warehouse_id UUID NOT NULL REFERENCES warehouses(id),
		stock_take_id UUID NOT NULL REFERENCES stock_takes(id),
		bin_location_id UUID NOT NULL REFERENCES bin_locations(id),
		item_code TEXT NOT NULL,
		item_name TEXT,
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		counted_by_manager_id UUID REFERENCES managers(id),
		count_date DATE NOT NULL DEFAULT CURRENT_DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS manager_company_access (
		id UUID PRIMARY KEY,
		manager_id UUID NOT NULL REFERENCES managers(id),
		company_id UUID NOT NULL REFERENCES companies(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (manager_id, company_id)
	)`,
	`CREATE TABLE IF NOT EXISTS counter_company_access (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		company_id UUID NOT NULL REFERENCES companies(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (email, company_id)
	)`,
}

// EnsureSchema applies the DDL and records the schema version. An existing
// database at a different version is a startup failure, never a request-time
// fallback.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var current int
	err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case current == 0:
		if _, err := pool.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case current != schemaVersion:
		return fmt.Errorf("unsupported schema version %d (want %d)", current, schemaVersion)
	}
	return nil
}
