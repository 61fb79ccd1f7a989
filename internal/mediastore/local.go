package mediastore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
)

// LocalStore deletes attachments stored under a directory on disk.
// URIs are paths relative to the root, optionally prefixed with file://.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Remove deletes the file addressed by uri.
func (s *LocalStore) Remove(_ context.Context, uri string) error {
	path, err := s.resolve(uri)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// resolve maps uri to a path inside root, rejecting anything that escapes it.
func (s *LocalStore) resolve(uri string) (string, error) {
	rel := strings.TrimPrefix(uri, "file://")
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidAttachment, uri)
	}

	path := filepath.Join(s.root, filepath.Clean(rel))
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes media dir", apperrors.ErrInvalidAttachment, uri)
	}
	return path, nil
}
