package models

import "time"

type Activity struct {
	ID        int        `json:"id"`
	Type      string     `json:"type"` // call, email, task
	Note      string     `json:"note"`
	ContactID *int       `json:"contact_id"`
	DealID    *int       `json:"deal_id"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`

	// заполняются JOIN-ом при чтении
	ContactFirst string `json:"contact_first,omitempty"`
	ContactLast  string `json:"contact_last,omitempty"`
	DealTitle    string `json:"deal_title,omitempty"`
}
