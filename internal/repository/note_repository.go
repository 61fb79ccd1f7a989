package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// NoteRepository provides data access methods for the notes table.
// Attachments are stored as one comma-separated column.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository with the provided database connection.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, title, content, attachments, created_at, updated_at`

// ListNotes retrieves every note, most recently updated first.
func (r *NoteRepository) ListNotes(ctx context.Context) ([]model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes table: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes table: %w", err)
	}

	return notes, nil
}

// GetNote retrieves a single note by ID.
// Returns apperrors.ErrNoteNotFound when no row matches.
func (r *NoteRepository) GetNote(ctx context.Context, noteID string) (model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE id = ?
	`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, noteID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, apperrors.ErrNoteNotFound
	}
	return n, err
}

// InsertNote stores a new note.
func (r *NoteRepository) InsertNote(ctx context.Context, n *model.Note) error {
	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Title,
		n.Content,
		joinAttachments(n.Attachments),
		formatTimestamp(n.CreatedAt),
		formatTimestamp(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// UpdateNote overwrites title, content, attachments and updated_at.
// Returns apperrors.ErrNoteNotFound when no row matches.
func (r *NoteRepository) UpdateNote(ctx context.Context, n *model.Note) error {
	query := `
		UPDATE notes
		SET title = ?, content = ?, attachments = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		n.Title,
		n.Content,
		joinAttachments(n.Attachments),
		formatTimestamp(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireAffected(result, apperrors.ErrNoteNotFound)
}

// DeleteNote removes a note.
// Returns apperrors.ErrNoteNotFound when no row matches.
func (r *NoteRepository) DeleteNote(ctx context.Context, noteID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireAffected(result, apperrors.ErrNoteNotFound)
}

func scanNote(row rowScanner) (model.Note, error) {
	var (
		n                          model.Note
		attachments                string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(&n.ID, &n.Title, &n.Content, &attachments, &createdAtStr, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return n, err
	}
	if err != nil {
		return n, fmt.Errorf("failed to scan notes table results: %w", err)
	}

	n.Attachments = splitAttachments(attachments)

	if n.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return n, err
	}
	if n.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return n, err
	}

	return n, nil
}
