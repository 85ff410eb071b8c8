package repositories

import (
	"context"
	"errors"

	"invoicedash/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	ListFields(ctx context.Context) ([]*models.CustomerField, error)
	Count(ctx context.Context) (int, error)
}

type customerRepo struct {
	db Database
}

func NewCustomerRepo(db Database) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.Name, customer.Email, customer.ImageURL)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, name, email, image_url
		FROM customers
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) ListFields(ctx context.Context) ([]*models.CustomerField, error) {
	query := `
		SELECT id, name
		FROM customers
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.CustomerField{}
	for rows.Next() {
		c := &models.CustomerField{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
