package models

type Customer struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	ImageURL string `json:"image_url" db:"image_url"`
}

// CustomerField is the slim projection used to fill the customer select
type CustomerField struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
