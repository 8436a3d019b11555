package models

import "time"

type Deal struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	ContactID     *int       `json:"contact_id"`
	CompanyID     *int       `json:"company_id"`
	Value         float64    `json:"value"`
	Stage         string     `json:"stage"`
	Position      int        `json:"position"`
	Probability   int        `json:"probability"`
	ExpectedClose *time.Time `json:"expected_close"`
	CreatedAt     time.Time  `json:"created_at"`

	// заполняются JOIN-ом при чтении
	ContactFirst string `json:"contact_first,omitempty"`
	ContactLast  string `json:"contact_last,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
}

// StageTotal — одна строка сводки по пайплайну.
type StageTotal struct {
	Stage         string  `json:"stage"`
	Count         int     `json:"count"`
	TotalValue    float64 `json:"total_value"`
	TotalWeighted float64 `json:"total_weighted"`
}
