package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoRowsAffected  = errors.New("no rows affected")
)

// Database is the subset of pgxpool.Pool the repositories need; pgxmock pools satisfy it too
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// likePattern wraps a search term for ILIKE, escaping wildcard characters in the input
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
