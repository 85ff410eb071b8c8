package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicedash/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       InvoiceRepository
	invoiceID  string
	customerID string
	context    context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.invoiceID = "cc27c14a-0acf-4f4a-a6c9-d45682c144b9"
	suite.customerID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := &models.Invoice{
		CustomerID: suite.customerID,
		Amount:     4999,
		Status:     models.InvoiceStatusPending,
		Date:       "2026-10-14",
	}
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`INSERT INTO invoices \(customer_id, amount, status, date\)`).
		WithArgs(suite.customerID, int64(4999), "pending", date).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(suite.invoiceID))

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.invoiceID, invoice.ID)
}

func (suite *InvoiceRepoTestSuite) TestCreate_DatabaseError() {
	invoice := &models.Invoice{
		CustomerID: suite.customerID,
		Amount:     100,
		Status:     models.InvoiceStatusPaid,
		Date:       "2026-10-14",
	}

	suite.mock.ExpectQuery(`INSERT INTO invoices`).
		WillReturnError(errors.New("violates foreign key constraint"))

	err := suite.repo.Create(suite.context, invoice)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "foreign key")
	assert.Empty(suite.T(), invoice.ID)
}

func (suite *InvoiceRepoTestSuite) TestCreate_InvalidDate() {
	invoice := &models.Invoice{CustomerID: suite.customerID, Amount: 100, Status: models.InvoiceStatusPaid, Date: "14/10/2026"}

	err := suite.repo.Create(suite.context, invoice)
	assert.Error(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT id, customer_id, amount, status, date::text\s+FROM invoices\s+WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "amount", "status", "date"}).
			AddRow(suite.invoiceID, suite.customerID, int64(15795), "pending", "2022-12-06"))

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.customerID, invoice.CustomerID)
	assert.Equal(suite.T(), int64(15795), invoice.Amount)
	assert.Equal(suite.T(), models.InvoiceStatusPending, invoice.Status)
	assert.Equal(suite.T(), "2022-12-06", invoice.Date)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM invoices\s+WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)
	assert.ErrorIs(suite.T(), err, ErrInvoiceNotFound)
	assert.Nil(suite.T(), invoice)
}

func (suite *InvoiceRepoTestSuite) TestUpdate_NeverWritesDate() {
	invoice := &models.Invoice{
		ID:         suite.invoiceID,
		CustomerID: suite.customerID,
		Amount:     20348,
		Status:     models.InvoiceStatusPaid,
		Date:       "2022-11-14",
	}

	suite.mock.ExpectExec(`UPDATE invoices\s+SET customer_id = \$1, amount = \$2, status = \$3\s+WHERE id = \$4`).
		WithArgs(suite.customerID, int64(20348), "paid", suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestUpdate_NoMatchingRow() {
	invoice := &models.Invoice{ID: suite.invoiceID, CustomerID: suite.customerID, Amount: 1, Status: models.InvoiceStatusPaid}

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(suite.customerID, int64(1), "paid", suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, invoice)
	assert.ErrorIs(suite.T(), err, ErrNoRowsAffected)
}

func (suite *InvoiceRepoTestSuite) TestDelete_Twice() {
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.invoiceID))
	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, suite.invoiceID), ErrNoRowsAffected)
}

func (suite *InvoiceRepoTestSuite) TestDelete_DatabaseError() {
	suite.mock.ExpectExec(`DELETE FROM invoices`).
		WithArgs(suite.invoiceID).
		WillReturnError(errors.New("connection reset"))

	err := suite.repo.Delete(suite.context, suite.invoiceID)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrNoRowsAffected)
}

func (suite *InvoiceRepoTestSuite) TestListFiltered_EscapesWildcards() {
	suite.mock.ExpectQuery(`FROM invoices\s+JOIN customers`).
		WithArgs(`%50\%%`, 6, 12).
		WillReturnRows(pgxmock.NewRows([]string{"id", "amount", "date", "status", "name", "email", "image_url"}).
			AddRow(suite.invoiceID, int64(5000), "2023-06-27", "paid", "Evil Rabbit", "evil@rabbit.com", "/customers/evil-rabbit.png"))

	invoices, err := suite.repo.ListFiltered(suite.context, " 50% ", 6, 12)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoices, 1)
	assert.Equal(suite.T(), "Evil Rabbit", invoices[0].Name)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, invoices[0].Status)
}

func (suite *InvoiceRepoTestSuite) TestCountFiltered() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM invoices\s+JOIN customers`).
		WithArgs(`%%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(13))

	count, err := suite.repo.CountFiltered(suite.context, "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 13, count)
}

func (suite *InvoiceRepoTestSuite) TestSumByStatus() {
	suite.mock.ExpectQuery(`SUM\(CASE WHEN status = 'paid'`).
		WillReturnRows(pgxmock.NewRows([]string{"paid", "pending"}).AddRow(int64(120000), int64(4999)))

	sums, err := suite.repo.SumByStatus(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(120000), sums[models.InvoiceStatusPaid])
	assert.Equal(suite.T(), int64(4999), sums[models.InvoiceStatusPending])
}
