// Package mediastore removes note attachments from wherever their bytes live.
// Uploads happen client-side; the backend only ever deletes objects that no
// note references any more.
package mediastore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
)

// Remover deletes the object behind an attachment URI.
// Removing an object that no longer exists is not an error.
type Remover interface {
	Remove(ctx context.Context, uri string) error
}

// ParseGCSURI splits gs://bucket/object or https://storage.googleapis.com/bucket/object
// into bucket and object name.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	var trimmed string
	switch {
	case strings.HasPrefix(uri, "gs://"):
		trimmed = strings.TrimPrefix(uri, "gs://")
	case strings.HasPrefix(uri, "https://storage.googleapis.com/"):
		u, perr := url.Parse(uri)
		if perr != nil {
			return "", "", fmt.Errorf("%w: %s", apperrors.ErrInvalidAttachment, uri)
		}
		trimmed = strings.TrimPrefix(u.Path, "/")
	default:
		return "", "", fmt.Errorf("%w: %s", apperrors.ErrInvalidAttachment, uri)
	}

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w (no object path): %s", apperrors.ErrInvalidAttachment, uri)
	}
	return parts[0], parts[1], nil
}
