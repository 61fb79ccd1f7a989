package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
	"github.com/ndewijer/Personal-Hub-Backend/internal/idgen"
	"github.com/ndewijer/Personal-Hub-Backend/internal/logging"
	"github.com/ndewijer/Personal-Hub-Backend/internal/mediastore"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
)

// NoteService handles note business logic, including cleanup of attachment
// objects that a note no longer references.
type NoteService struct {
	noteRepo *repository.NoteRepository
	ids      *idgen.Generator
	media    mediastore.Remover
	logger   zerolog.Logger
}

// NewNoteService creates a new NoteService with the provided dependencies.
func NewNoteService(
	noteRepo *repository.NoteRepository,
	ids *idgen.Generator,
	media mediastore.Remover,
	logger zerolog.Logger,
) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		ids:      ids,
		media:    media,
		logger:   logger,
	}
}

// ListNotes retrieves every note, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context) ([]model.Note, error) {
	return s.noteRepo.ListNotes(ctx)
}

// GetNote retrieves a single note by its ID.
func (s *NoteService) GetNote(ctx context.Context, noteID string) (model.Note, error) {
	return s.noteRepo.GetNote(ctx, noteID)
}

// CreateNote stores a validated note.
func (s *NoteService) CreateNote(ctx context.Context, req request.CreateNoteRequest) (*model.Note, error) {
	now := time.Now()
	note := &model.Note{
		ID:          s.ids.Next(ctx, idgen.SequenceNotes),
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Attachments: normalizeAttachments(req.Attachments),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.noteRepo.InsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// UpdateNote applies the present fields of req to the note. Attachments dropped
// by the update are removed from media storage once the note is saved.
func (s *NoteService) UpdateNote(ctx context.Context, noteID string, req request.UpdateNoteRequest) (model.Note, error) {
	note, err := s.noteRepo.GetNote(ctx, noteID)
	if err != nil {
		return model.Note{}, err
	}
	before := note.Attachments

	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Attachments != nil {
		note.Attachments = normalizeAttachments(*req.Attachments)
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.UpdateNote(ctx, &note); err != nil {
		return model.Note{}, fmt.Errorf("failed to update note: %w", err)
	}

	s.removeMedia(ctx, noteID, RemovedAttachments(before, note.Attachments))
	return note, nil
}

// DeleteNote removes a note and every attachment it references.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	note, err := s.noteRepo.GetNote(ctx, noteID)
	if err != nil {
		return err
	}
	if err := s.noteRepo.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	s.removeMedia(ctx, noteID, note.Attachments)
	return nil
}

// RemovedAttachments returns the URIs present in before but not in after,
// in their original order.
//
// Example:
//
//	RemovedAttachments([]string{"a", "b", "c"}, []string{"b", "d"})  // returns [a c]
func RemovedAttachments(before, after []string) []string {
	kept := make(map[string]struct{}, len(after))
	for _, uri := range after {
		kept[uri] = struct{}{}
	}

	var removed []string
	for _, uri := range before {
		if _, ok := kept[uri]; !ok {
			removed = append(removed, uri)
		}
	}
	return removed
}

// removeMedia deletes objects from media storage. Failures are logged and
// never reach the caller: the note itself is already saved.
func (s *NoteService) removeMedia(ctx context.Context, noteID string, uris []string) {
	if s.media == nil || len(uris) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	logger := logging.For(ctx, s.logger)
	for _, uri := range uris {
		if err := s.media.Remove(ctx, uri); err != nil {
			logger.Warn().Err(err).Str("note_id", noteID).Str("uri", uri).Msg("failed to remove attachment")
			continue
		}
		logger.Debug().Str("note_id", noteID).Str("uri", uri).Msg("removed attachment")
	}
}

func normalizeAttachments(uris []string) []string {
	out := make([]string, 0, len(uris))
	for _, uri := range uris {
		out = append(out, strings.TrimSpace(uri))
	}
	return out
}
