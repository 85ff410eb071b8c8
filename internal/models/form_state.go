package models

// FieldErrors holds per-field validation messages in the order they were produced
type FieldErrors struct {
	CustomerID []string `json:"customerId,omitempty"`
	Amount     []string `json:"amount,omitempty"`
	Status     []string `json:"status,omitempty"`
}

func (e *FieldErrors) Empty() bool {
	return e == nil || (len(e.CustomerID) == 0 && len(e.Amount) == 0 && len(e.Status) == 0)
}

// FormState is what a mutation hands back to the form that submitted it
type FormState struct {
	Errors  *FieldErrors `json:"errors,omitempty"`
	Message *string      `json:"message"`
}

func NewFormState(message string, errs *FieldErrors) *FormState {
	return &FormState{Errors: errs, Message: &message}
}

// InvoiceForm carries the raw submitted values of an invoice form.
// Has* flags distinguish a missing field from an empty one.
type InvoiceForm struct {
	CustomerID    string
	HasCustomerID bool
	Amount        string
	HasAmount     bool
	Status        string
	HasStatus     bool
}

// LoginForm carries submitted credentials
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Redirect string `json:"redirectTo" form:"redirectTo"`
}
