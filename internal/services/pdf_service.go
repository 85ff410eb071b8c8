package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"invoicedash/internal/analytics"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"

	"github.com/jung-kurt/gofpdf"
)

const pdfURLExpiry = 15 * time.Minute

// InvoicePDFService renders an invoice to PDF and hands back a download link
type InvoicePDFService interface {
	Export(ctx context.Context, invoiceID string) (string, error)
}

type invoicePDFService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	storage      ObjectStorage
	bucket       string
}

func NewInvoicePDFService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository, storage ObjectStorage, bucket string) InvoicePDFService {
	return &invoicePDFService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		storage:      storage,
		bucket:       bucket,
	}
}

// Export returns repositories.ErrInvoiceNotFound for an unknown invoice
func (s *invoicePDFService) Export(ctx context.Context, invoiceID string) (string, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", err
	}

	customer, err := s.customerRepo.GetByID(ctx, invoice.CustomerID)
	if err != nil && !errors.Is(err, repositories.ErrCustomerNotFound) {
		return "", fmt.Errorf("failed to load customer: %w", err)
	}

	data, err := RenderInvoicePDF(invoice, customer)
	if err != nil {
		return "", fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	objectName := invoice.ID + ".pdf"
	if err := s.storage.Upload(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to upload invoice pdf: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectName, pdfURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign invoice pdf: %w", err)
	}
	return url, nil
}

// RenderInvoicePDF lays out a single-page invoice. customer may be nil.
func RenderInvoicePDF(invoice *models.Invoice, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+invoice.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Acme Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	billTo := invoice.CustomerID
	if customer != nil {
		billTo = fmt.Sprintf("%s <%s>", customer.Name, customer.Email)
	}

	rows := [][2]string{
		{"Invoice", invoice.ID},
		{"Date", invoice.Date},
		{"Bill to", billTo},
		{"Status", string(invoice.Status)},
		{"Amount", analytics.FormatCurrency(invoice.Amount)},
	}

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(35, 9, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 9, row[1], "B", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
