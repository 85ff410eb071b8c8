package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
	"invoicedash/internal/validation"

	"github.com/sirupsen/logrus"
)

const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgCreateDBError       = "Database Error: Failed to Create Invoice."
	MsgUpdateDBError       = "Database Error: Failed to Update Invoice."
	MsgDeleteDBError       = "Database Error: Failed to Delete Invoice."

	ItemsPerPage = 6
)

// InvoiceServiceInterface defines the interface for invoice service
type InvoiceServiceInterface interface {
	// Mutations
	CreateInvoice(ctx context.Context, scope common.RequestScope, prev *models.FormState, form models.InvoiceForm) ActionResult
	UpdateInvoice(ctx context.Context, scope common.RequestScope, id string, prev *models.FormState, form models.InvoiceForm) ActionResult
	DeleteInvoice(ctx context.Context, scope common.RequestScope, id string) ActionResult

	// Reads backing the invoice pages
	FetchFilteredInvoices(ctx context.Context, query string, page int) ([]*models.InvoiceView, error)
	FetchInvoicesPages(ctx context.Context, query string) (int, error)
	FetchInvoiceByID(ctx context.Context, id string) (*models.EditableInvoice, error)
	FetchCustomers(ctx context.Context) ([]*models.CustomerField, error)
}

type InvoiceServiceOption func(*invoiceService)

// WithClock replaces the time source used to stamp new invoices
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) { s.now = now }
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	cacheSvc     caching.CacheService
	viewTTL      time.Duration
	now          func() time.Time
	logger       *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository, cacheSvc caching.CacheService, viewTTL time.Duration, opts ...InvoiceServiceOption) InvoiceServiceInterface {
	s := &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		cacheSvc:     cacheSvc,
		viewTTL:      viewTTL,
		now:          time.Now,
		logger:       config.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice validates the form, inserts the invoice stamped with today's date and
// sends the caller back to the invoice list.
func (s *invoiceService) CreateInvoice(ctx context.Context, scope common.RequestScope, _ *models.FormState, form models.InvoiceForm) ActionResult {
	fields, fieldErrs := validation.ValidateInvoice(form)
	if fieldErrs != nil {
		return StateResult(models.NewFormState(MsgCreateMissingFields, fieldErrs))
	}

	invoice := &models.Invoice{
		CustomerID: fields.CustomerID,
		Amount:     fields.CentsAmount(),
		Status:     fields.Status,
		Date:       s.now().UTC().Format(time.DateOnly),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logStoreError(scope, "CreateInvoice", invoice, err)
		return StateResult(models.NewFormState(MsgCreateDBError, nil))
	}

	s.revalidate(ctx, scope, InvoicesPath)
	return Redirect(InvoicesPath)
}

// UpdateInvoice rewrites customer, amount and status. The issue date stays as created.
func (s *invoiceService) UpdateInvoice(ctx context.Context, scope common.RequestScope, id string, _ *models.FormState, form models.InvoiceForm) ActionResult {
	fields, fieldErrs := validation.ValidateInvoice(form)
	if fieldErrs != nil {
		return StateResult(models.NewFormState(MsgUpdateMissingFields, fieldErrs))
	}

	invoice := &models.Invoice{
		ID:         id,
		CustomerID: fields.CustomerID,
		Amount:     fields.CentsAmount(),
		Status:     fields.Status,
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logStoreError(scope, "UpdateInvoice", invoice, err)
		return StateResult(models.NewFormState(MsgUpdateDBError, nil))
	}

	s.revalidate(ctx, scope, InvoicesPath)
	return Redirect(InvoicesPath)
}

// DeleteInvoice removes the invoice; the caller stays where it is
func (s *invoiceService) DeleteInvoice(ctx context.Context, scope common.RequestScope, id string) ActionResult {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		s.logStoreError(scope, "DeleteInvoice", map[string]string{"id": id}, err)
		return StateResult(models.NewFormState(MsgDeleteDBError, nil))
	}

	s.revalidate(ctx, scope, InvoicesPath)
	return ActionResult{}
}

func (s *invoiceService) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]*models.InvoiceView, error) {
	page = common.ClampPage(page)
	variant := fmt.Sprintf("list:query=%s&page=%d", query, page)

	var invoices []*models.InvoiceView
	if s.readView(ctx, variant, &invoices) {
		return invoices, nil
	}

	invoices, err := s.invoiceRepo.ListFiltered(ctx, query, ItemsPerPage, (page-1)*ItemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	s.writeView(ctx, variant, invoices)
	return invoices, nil
}

func (s *invoiceService) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	variant := "pages:query=" + query

	var pages int
	if s.readView(ctx, variant, &pages) {
		return pages, nil
	}

	count, err := s.invoiceRepo.CountFiltered(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch total number of invoices: %w", err)
	}
	pages = int(math.Ceil(float64(count) / ItemsPerPage))

	s.writeView(ctx, variant, pages)
	return pages, nil
}

// FetchInvoiceByID returns repositories.ErrInvoiceNotFound when there is no such invoice
func (s *invoiceService) FetchInvoiceByID(ctx context.Context, id string) (*models.EditableInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EditableInvoice{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     float64(invoice.Amount) / 100,
		Status:     invoice.Status,
	}, nil
}

func (s *invoiceService) FetchCustomers(ctx context.Context) ([]*models.CustomerField, error) {
	customers, err := s.customerRepo.ListFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all customers: %w", err)
	}
	return customers, nil
}

// revalidate marks the view stale. The write already succeeded, so a cache failure is
// only logged and the entries age out on their TTL.
func (s *invoiceService) revalidate(ctx context.Context, scope common.RequestScope, path string) {
	if err := s.cacheSvc.RevalidatePath(ctx, path); err != nil {
		s.logger.WithFields(logrus.Fields{
			"module":     "services",
			"funcName":   "revalidate",
			"path":       path,
			"request_id": scope.RequestID,
		}).Warnf("failed to revalidate view: %v", err)
	}
}

func (s *invoiceService) readView(ctx context.Context, variant string, dst any) bool {
	hit, err := s.cacheSvc.GetView(ctx, InvoicesPath, variant, dst)
	if err != nil {
		s.logger.WithField("module", "services").Debugf("view cache read failed: %v", err)
		return false
	}
	return hit
}

func (s *invoiceService) writeView(ctx context.Context, variant string, value any) {
	if err := s.cacheSvc.SetView(ctx, InvoicesPath, variant, value, s.viewTTL); err != nil {
		s.logger.WithField("module", "services").Debugf("view cache write failed: %v", err)
	}
}

func (s *invoiceService) logStoreError(scope common.RequestScope, funcName string, data any, err error) {
	reqContext := fmt.Sprintf("request_id=%s user_id=%s", scope.RequestID, scope.UserID)
	config.LogError(s.logger, "services", funcName, reqContext, data, err)
}
