package models

import "time"

type Notification struct {
	ID           int        `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Seen         bool       `json:"seen"`
	Metadata     string     `json:"metadata"` // JSON-строка, напр. {"email":"..."}
	ScheduledFor *time.Time `json:"scheduled_for"`
	CreatedAt    time.Time  `json:"created_at"`
}
