package models

import "time"

// Attachment stores file metadata; the payload lives on disk under the
// configured files root.
type Attachment struct {
	ID           int       `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Mime         string    `json:"mime"`
	Size         int64     `json:"size"`
	EntityType   string    `json:"entity_type"` // 'contact' | 'deal'
	EntityID     int       `json:"entity_id"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}
