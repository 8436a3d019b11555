package models

import "time"

// Lead lives outside the contact/company graph until it is converted.
// Company here is free text, not a foreign key.
type Lead struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	Converted bool      `json:"converted"`
	CreatedAt time.Time `json:"created_at"`
}

// ConvertOptions — параметры конвертации лида.
type ConvertOptions struct {
	CreateDeal  bool
	DealTitle   string
	Value       float64
	Stage       string
	Probability int
}

// ConversionResult carries the ids produced by a successful conversion.
// CompanyID is nil when the lead had no company name, DealID is nil
// when deal creation was skipped.
type ConversionResult struct {
	ContactID int  `json:"contact_id"`
	CompanyID *int `json:"company_id"`
	DealID    *int `json:"deal_id"`
}
