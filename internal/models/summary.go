package models

import "time"

// CardData backs the dashboard overview cards
type CardData struct {
	NumberOfCustomers    int       `json:"number_of_customers"`
	NumberOfInvoices     int       `json:"number_of_invoices"`
	TotalPaidInvoices    string    `json:"total_paid_invoices"`
	TotalPendingInvoices string    `json:"total_pending_invoices"`
	RefreshedAt          time.Time `json:"refreshed_at"`
}
