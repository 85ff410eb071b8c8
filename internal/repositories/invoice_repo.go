package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicedash/internal/models"

	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id string) error
	ListFiltered(ctx context.Context, query string, limit, offset int) ([]*models.InvoiceView, error)
	CountFiltered(ctx context.Context, query string) (int, error)
	Count(ctx context.Context) (int, error)
	SumByStatus(ctx context.Context) (map[models.InvoiceStatus]int64, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// Create inserts a new invoice and stores the generated id on it
func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	date, err := time.Parse(time.DateOnly, invoice.Date)
	if err != nil {
		return fmt.Errorf("invalid invoice date %q: %w", invoice.Date, err)
	}

	query := `
		INSERT INTO invoices (customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, invoice.CustomerID, invoice.Amount, string(invoice.Status), date).Scan(&invoice.ID)
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var status string
	query := `
		SELECT id, customer_id, amount, status, date::text
		FROM invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.CustomerID, &invoice.Amount, &status, &invoice.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	invoice.Status = models.InvoiceStatus(status)
	return invoice, nil
}

// Update writes customer, amount and status. The issue date is never touched.
func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice %s: %w", invoice.ID, ErrNoRowsAffected)
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete invoice %s: %w", id, ErrNoRowsAffected)
	}
	return nil
}

func (r *invoiceRepo) ListFiltered(ctx context.Context, query string, limit, offset int) ([]*models.InvoiceView, error) {
	sql := `
		SELECT invoices.id, invoices.amount, invoices.date::text, invoices.status,
			customers.name, customers.email, customers.image_url
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE customers.name ILIKE $1
			OR customers.email ILIKE $1
			OR invoices.amount::text ILIKE $1
			OR invoices.date::text ILIKE $1
			OR invoices.status ILIKE $1
		ORDER BY invoices.date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, sql, likePattern(query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*models.InvoiceView{}
	for rows.Next() {
		inv := &models.InvoiceView{}
		var status string
		if err := rows.Scan(&inv.ID, &inv.Amount, &inv.Date, &status, &inv.Name, &inv.Email, &inv.ImageURL); err != nil {
			return nil, err
		}
		inv.Status = models.InvoiceStatus(status)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) CountFiltered(ctx context.Context, query string) (int, error) {
	sql := `
		SELECT COUNT(*)
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE customers.name ILIKE $1
			OR customers.email ILIKE $1
			OR invoices.amount::text ILIKE $1
			OR invoices.date::text ILIKE $1
			OR invoices.status ILIKE $1
	`
	var count int
	if err := r.db.QueryRow(ctx, sql, likePattern(query)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *invoiceRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumByStatus totals invoice amounts in cents per status
func (r *invoiceRepo) SumByStatus(ctx context.Context) (map[models.InvoiceStatus]int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0)::bigint AS paid,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)::bigint AS pending
		FROM invoices
	`
	var paid, pending int64
	if err := r.db.QueryRow(ctx, query).Scan(&paid, &pending); err != nil {
		return nil, err
	}
	return map[models.InvoiceStatus]int64{
		models.InvoiceStatusPaid:    paid,
		models.InvoiceStatusPending: pending,
	}, nil
}
