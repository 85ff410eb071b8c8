package models

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

type Invoice struct {
	ID         string        `json:"id" db:"id"`
	CustomerID string        `json:"customer_id" db:"customer_id"`
	Amount     int64         `json:"amount" db:"amount"` // cents
	Status     InvoiceStatus `json:"status" db:"status"`
	Date       string        `json:"date" db:"date"`
}

// InvoiceView is an invoice row joined with its customer, as shown in the invoices table
type InvoiceView struct {
	ID       string        `json:"id" db:"id"`
	Amount   int64         `json:"amount" db:"amount"`
	Date     string        `json:"date" db:"date"`
	Status   InvoiceStatus `json:"status" db:"status"`
	Name     string        `json:"name" db:"name"`
	Email    string        `json:"email" db:"email"`
	ImageURL string        `json:"image_url" db:"image_url"`
}

// EditableInvoice is the edit form representation, amount in dollars
type EditableInvoice struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Amount     float64       `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}
