package request

// CreateNoteRequest represents the request body for creating a note.
type CreateNoteRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

// UpdateNoteRequest represents the request body for updating a note.
// Omitted fields keep their current value; attachments replace the full list.
type UpdateNoteRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Attachments *[]string `json:"attachments,omitempty"`
}
