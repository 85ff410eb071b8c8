package validation

import "strings"

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// ValidateCredentials checks the shape of submitted credentials before any lookup
func ValidateCredentials(email, password string) (Credentials, error) {
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validate.Struct(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
