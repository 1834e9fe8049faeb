package entity

import "time"

// Assignment is shared by every signed-in user; it has no owner.
type Assignment struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
