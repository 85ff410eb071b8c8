package services

import "invoicedash/internal/models"

const (
	DashboardPath = "/dashboard"
	InvoicesPath  = "/dashboard/invoices"
	LoginPath     = "/login"
)

// ActionResult is the outcome of a mutation. Exactly one of three shapes:
// a form state to show, a redirect to follow, or neither (done, stay on the page).
type ActionResult struct {
	State      *models.FormState
	RedirectTo string
}

func Redirect(path string) ActionResult {
	return ActionResult{RedirectTo: path}
}

func StateResult(state *models.FormState) ActionResult {
	return ActionResult{State: state}
}

func (r ActionResult) IsRedirect() bool {
	return r.RedirectTo != ""
}

// Failed reports whether the mutation returned a form state instead of completing
func (r ActionResult) Failed() bool {
	return r.State != nil
}
