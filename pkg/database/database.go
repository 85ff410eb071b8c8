package database

import (
	"context"
	"fmt"

	"invoicedash/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	config.GetLogger().WithField("module", "database").Info("Database connected successfully")

	return pool, nil
}


// Execer is the part of a pool the migrations need
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var migrations = []struct {
	name string
	sql  string
}{
	{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`},
	{"customers", `
		CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			image_url VARCHAR(255) NOT NULL DEFAULT ''
		)`},
	{"invoices", `
		CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			customer_id UUID NOT NULL REFERENCES customers(id),
			amount INTEGER NOT NULL CHECK (amount >= 0),
			status VARCHAR(16) NOT NULL CHECK (status IN ('pending', 'paid')),
			date DATE NOT NULL
		)`},
	{"invoices_customer_idx", `CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id)`},
	{"invoices_date_idx", `CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices (date DESC)`},
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db Execer) error {
	logger := config.GetLogger()
	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		logger.WithField("module", "database").Debugf("applied migration %s", m.name)
	}
	return nil
}
