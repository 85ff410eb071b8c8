package main

import (
	"context"
	"errors"
	"fmt"

	"invoicedash/internal/config"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
	"invoicedash/pkg/database"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedUsers = []struct {
	user     models.User
	password string
}{
	{models.User{ID: "410544b2-4001-4271-9855-fec4b6a6442a", Name: "User", Email: "user@nextmail.com"}, "123456"},
}

var seedCustomers = []models.Customer{
	{ID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{ID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{ID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{ID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

var seedInvoices = []models.Invoice{
	{CustomerID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Amount: 15795, Status: models.InvoiceStatusPending, Date: "2022-12-06"},
	{CustomerID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Amount: 20348, Status: models.InvoiceStatusPending, Date: "2022-11-14"},
	{CustomerID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Amount: 3040, Status: models.InvoiceStatusPaid, Date: "2022-10-29"},
	{CustomerID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Amount: 44800, Status: models.InvoiceStatusPaid, Date: "2023-09-10"},
	{CustomerID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Amount: 34577, Status: models.InvoiceStatusPending, Date: "2023-08-05"},
	{CustomerID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Amount: 54246, Status: models.InvoiceStatusPending, Date: "2023-07-16"},
	{CustomerID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Amount: 666, Status: models.InvoiceStatusPending, Date: "2023-06-27"},
	{CustomerID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Amount: 32545, Status: models.InvoiceStatusPaid, Date: "2023-06-09"},
	{CustomerID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Amount: 1250, Status: models.InvoiceStatusPaid, Date: "2023-06-17"},
	{CustomerID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Amount: 8546, Status: models.InvoiceStatusPaid, Date: "2023-06-07"},
	{CustomerID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Amount: 500, Status: models.InvoiceStatusPaid, Date: "2023-08-19"},
	{CustomerID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Amount: 8945, Status: models.InvoiceStatusPaid, Date: "2023-06-03"},
	{CustomerID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Amount: 1000, Status: models.InvoiceStatusPaid, Date: "2022-06-05"},
}

func NewSeedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load placeholder users, customers and invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL environment variable is required")
			}

			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed(cmd.Context(), repositories.NewUserRepo(pool), repositories.NewCustomerRepo(pool), repositories.NewInvoiceRepo(pool))
		},
	}
}

// seed is safe to rerun: users and customers are upserted by key, invoices only load into an empty table
func seed(ctx context.Context, userRepo repositories.UserRepository, customerRepo repositories.CustomerRepository, invoiceRepo repositories.InvoiceRepository) error {
	logger := config.GetLogger().WithField("module", "cmd")

	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := su.user
		user.PasswordHash = string(hash)
		if err := userRepo.Create(ctx, &user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		}
	}

	for i := range seedCustomers {
		if err := customerRepo.Create(ctx, &seedCustomers[i]); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", seedCustomers[i].Name, err)
		}
	}

	count, err := invoiceRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Infof("invoices already present (%d), skipping", count)
		return nil
	}

	for i := range seedInvoices {
		invoice := seedInvoices[i]
		if err := invoiceRepo.Create(ctx, &invoice); err != nil {
			return fmt.Errorf("failed to seed invoice: %w", err)
		}
	}

	logger.Infof("seeded %d users, %d customers, %d invoices", len(seedUsers), len(seedCustomers), len(seedInvoices))
	return nil
}
