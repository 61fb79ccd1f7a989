package model

import "time"

// Note represents a free-form note with optional media attachments.
// Attachments hold object URIs (gs://bucket/object or file paths under the media root).
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
