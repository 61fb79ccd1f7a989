package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
	"github.com/ndewijer/Personal-Hub-Backend/internal/api/response"
	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
	"github.com/ndewijer/Personal-Hub-Backend/internal/validation"
)

// NoteHandler handles HTTP requests for note endpoints.
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new NoteHandler with the provided service dependency.
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// AllNotes handles GET requests to retrieve every note.
//
// Endpoint: GET /api/note
// Response: 200 OK with array of Note
// Error: 500 Internal Server Error if retrieval fails
func (h *NoteHandler) AllNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.ListNotes(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveNotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, notes)
}

// GetNote handles GET requests to retrieve a single note.
//
// Endpoint: GET /api/note/{id}
// Response: 200 OK with Note
// Error: 404 Not Found if note not found
// Error: 500 Internal Server Error if retrieval fails
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	note, err := h.noteService.GetNote(r.Context(), noteID)
	if err != nil {
		h.respondNoteError(w, err, apperrors.ErrFailedToRetrieveNote.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, note)
}

// CreateNote handles POST requests to create a note.
//
// Endpoint: POST /api/note
// Request Body: CreateNoteRequest (title, content, attachments)
// Response: 201 Created with Note
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateNoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateNote(req); err != nil {
		response.RespondValidationError(w, err)
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create note", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT requests to update a note. Attachments removed by the
// update are deleted from media storage.
//
// Endpoint: PUT /api/note/{id}
// Request Body: UpdateNoteRequest (all fields optional)
// Response: 200 OK with Note
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if note not found
// Error: 500 Internal Server Error if update fails
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	req, err := parseJSON[request.UpdateNoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateNote(req); err != nil {
		response.RespondValidationError(w, err)
		return
	}

	note, err := h.noteService.UpdateNote(r.Context(), noteID, req)
	if err != nil {
		h.respondNoteError(w, err, "failed to update note")
		return
	}

	response.RespondJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE requests to remove a note and its attachments.
//
// Endpoint: DELETE /api/note/{id}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if note not found
// Error: 500 Internal Server Error if deletion fails
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	if err := h.noteService.DeleteNote(r.Context(), noteID); err != nil {
		h.respondNoteError(w, err, "failed to delete note")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *NoteHandler) respondNoteError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, apperrors.ErrNoteNotFound) {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrNoteNotFound.Error(), err.Error())
		return
	}
	response.RespondError(w, http.StatusInternalServerError, message, err.Error())
}
