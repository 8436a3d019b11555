package models

import "time"

type Contact struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CompanyID *int      `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`

	// заполняется JOIN-ом при чтении
	CompanyName string `json:"company_name,omitempty"`
}
