package models

import "time"

// Company is a free-text named account. Name is not unique at the
// schema level; lead conversion dedupes on exact name match.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
