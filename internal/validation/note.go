package validation

import (
	"strings"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
)

// ValidateCreateNote validates a note creation request.
func ValidateCreateNote(req request.CreateNoteRequest) error {
	verr := &Error{}

	validateTitle(req.Title, verr)
	validateAttachments(req.Attachments, verr)

	return verr.OrNil()
}

// ValidateUpdateNote validates a note update request. Only present fields are checked.
func ValidateUpdateNote(req request.UpdateNoteRequest) error {
	verr := &Error{}

	if req.Title != nil {
		validateTitle(*req.Title, verr)
	}
	if req.Attachments != nil {
		validateAttachments(*req.Attachments, verr)
	}

	return verr.OrNil()
}

func validateTitle(title string, verr *Error) {
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "title is required")
	} else if len(title) > 200 {
		verr.Add("title", "title must be 200 characters or less")
	}
}

// Attachments are persisted comma-separated and trimmed, so a URI may not
// contain a comma and duplicates are compared after trimming.
func validateAttachments(uris []string, verr *Error) {
	seen := make(map[string]bool, len(uris))
	for i, raw := range uris {
		uri := strings.TrimSpace(raw)
		switch {
		case uri == "":
			verr.Addf("attachments", "attachment %d is empty", i)
		case strings.Contains(uri, ","):
			verr.Addf("attachments", "attachment %d contains a comma", i)
		case seen[uri]:
			verr.Addf("attachments", "attachment %d is a duplicate", i)
		}
		seen[uri] = true
	}
}
