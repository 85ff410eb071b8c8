package testhelpers

import (
	"context"
	"os"
	"testing"

	"invoicedash/internal/models"
	"invoicedash/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties every table.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString, 4)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE invoices, customers, users`); err != nil {
		pool.Close()
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return &TestDB{Pool: pool, Cleanup: pool.Close}
}

// SetupTestCustomer inserts a customer and returns it
func SetupTestCustomer(t *testing.T, db *TestDB, name string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    uuid.NewString()[:8] + "@example.com",
		ImageURL: "/customers/placeholder.png",
	}
	query := `INSERT INTO customers (id, name, email, image_url) VALUES ($1, $2, $3, $4)`
	if _, err := db.Pool.Exec(context.Background(), query, customer.ID, customer.Name, customer.Email, customer.ImageURL); err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}
	return customer
}
