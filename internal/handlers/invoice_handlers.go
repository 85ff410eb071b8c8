package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"invoicedash/internal/common"
	"invoicedash/internal/config"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
	"invoicedash/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
	pdfService     services.InvoicePDFService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface, pdfService services.InvoicePDFService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		pdfService:     pdfService,
	}
}

// InvoiceListResponse is one page of the invoice table
type InvoiceListResponse struct {
	Invoices   []*models.InvoiceView `json:"invoices"`
	TotalPages int                   `json:"totalPages"`
}

// ListInvoices handles GET /dashboard/invoices?query=&page=
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("query")
	page := common.ParsePage(c.QueryParam("page"))

	invoices, err := h.invoiceService.FetchFilteredInvoices(ctx, query, page)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "ListInvoices", "", nil, err)
		return common.SendServerError(c, "Failed to fetch invoices")
	}

	totalPages, err := h.invoiceService.FetchInvoicesPages(ctx, query)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "ListInvoices", "", nil, err)
		return common.SendServerError(c, "Failed to fetch total number of invoices")
	}

	if invoices == nil {
		invoices = []*models.InvoiceView{}
	}
	return c.JSON(http.StatusOK, InvoiceListResponse{Invoices: invoices, TotalPages: totalPages})
}

// NewInvoiceForm handles GET /dashboard/invoices/create
func (h *InvoiceHandlers) NewInvoiceForm(c echo.Context) error {
	customers, err := h.invoiceService.FetchCustomers(c.Request().Context())
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "NewInvoiceForm", "", nil, err)
		return common.SendServerError(c, "Failed to fetch customers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"customers": customers})
}

// EditInvoiceForm handles GET /dashboard/invoices/:id/edit
func (h *InvoiceHandlers) EditInvoiceForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if !common.IsUUID(id) {
		return common.SendNotFoundError(c, "Invoice")
	}

	invoice, err := h.invoiceService.FetchInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "Invoice")
		}
		config.LogError(config.GetLogger(), "handlers", "EditInvoiceForm", "", map[string]string{"id": id}, err)
		return common.SendServerError(c, "Failed to fetch invoice")
	}

	customers, err := h.invoiceService.FetchCustomers(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "EditInvoiceForm", "", nil, err)
		return common.SendServerError(c, "Failed to fetch customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoice":   invoice,
		"customers": customers,
	})
}

// CreateInvoice handles POST /dashboard/invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	form, err := bindInvoiceForm(c)
	if err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	result := h.invoiceService.CreateInvoice(c.Request().Context(), common.ScopeFromEcho(c), nil, form)
	return respondAction(c, result)
}

// UpdateInvoice handles POST and PUT /dashboard/invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	form, err := bindInvoiceForm(c)
	if err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	result := h.invoiceService.UpdateInvoice(c.Request().Context(), common.ScopeFromEcho(c), c.Param("id"), nil, form)
	return respondAction(c, result)
}

// DeleteInvoice handles DELETE /dashboard/invoices/:id and POST /dashboard/invoices/:id/delete
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	result := h.invoiceService.DeleteInvoice(c.Request().Context(), common.ScopeFromEcho(c), c.Param("id"))
	return respondAction(c, result)
}

// ExportInvoicePDF handles POST /dashboard/invoices/:id/pdf
func (h *InvoiceHandlers) ExportInvoicePDF(c echo.Context) error {
	id := c.Param("id")
	if !common.IsUUID(id) {
		return common.SendNotFoundError(c, "Invoice")
	}

	url, err := h.pdfService.Export(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "Invoice")
		}
		config.LogError(config.GetLogger(), "handlers", "ExportInvoicePDF", "", map[string]string{"id": id}, err)
		return common.SendServerError(c, "Failed to export invoice")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// respondAction maps a mutation outcome onto the response
func respondAction(c echo.Context, result services.ActionResult) error {
	switch {
	case result.IsRedirect():
		return c.Redirect(http.StatusSeeOther, result.RedirectTo)
	case result.Failed() && !result.State.Errors.Empty():
		return c.JSON(http.StatusUnprocessableEntity, result.State)
	case result.Failed():
		return c.JSON(http.StatusInternalServerError, result.State)
	default:
		return c.NoContent(http.StatusNoContent)
	}
}

// bindInvoiceForm reads customerId, amount and status from a JSON body or form fields,
// keeping track of which ones were sent at all.
func bindInvoiceForm(c echo.Context) (models.InvoiceForm, error) {
	var form models.InvoiceForm

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return form, err
		}
		form.CustomerID, form.HasCustomerID = jsonString(body, "customerId")
		form.Amount, form.HasAmount = jsonField(body, "amount")
		form.Status, form.HasStatus = jsonString(body, "status")
		return form, nil
	}

	values, err := c.FormParams()
	if err != nil {
		return form, err
	}
	form.CustomerID, form.HasCustomerID = formField(values, "customerId")
	form.Amount, form.HasAmount = formField(values, "amount")
	form.Status, form.HasStatus = formField(values, "status")
	return form, nil
}

func formField(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// jsonField accepts strings as-is and any other JSON scalar by its literal text. null counts as missing.
func jsonField(body map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// jsonString accepts only JSON strings. Any other present value is reported as
// sent but empty so validation rejects it.
func jsonString(body map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true
	}
	return s, true
}
