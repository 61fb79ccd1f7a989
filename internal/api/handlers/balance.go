package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/response"
	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
)

// BalanceHandler handles HTTP requests for the cached balance aggregate.
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler with the provided service dependency.
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// BalanceErrorResponse is returned when a recomputation fails. Balance carries
// the last known value when there is one.
type BalanceErrorResponse struct {
	Error   string                 `json:"error"`
	Details string                 `json:"details"`
	Balance *model.BalanceResponse `json:"balance,omitempty"`
}

// GetBalance handles GET requests for the balance aggregate.
// A missing or force-staled balance is recomputed before responding; an old one is
// returned with isStale set while a refresh runs in the background.
//
// Endpoint: GET /api/balance
// Response: 200 OK with BalanceResponse
// Error: 503 Service Unavailable with BalanceErrorResponse if recomputation fails
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.GetBalance(r.Context())
	if err != nil {
		resp := BalanceErrorResponse{
			Error:   apperrors.ErrFailedToComputeBalance.Error(),
			Details: err.Error(),
		}
		if balance.LastUpdated != nil {
			resp.Balance = &balance
		}
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}

// GetCachedBalance handles GET requests for the balance without touching the record store.
//
// Endpoint: GET /api/balance/cached
// Response: 200 OK with BalanceResponse
// Error: 404 Not Found if no balance is cached
func (h *BalanceHandler) GetCachedBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.GetCachedBalance(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrBalanceNotCached) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrBalanceNotCached.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to load balance", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}

// RefreshBalance handles POST requests to recompute the balance immediately.
//
// Endpoint: POST /api/balance/refresh
// Response: 200 OK with BalanceResponse
// Error: 503 Service Unavailable if recomputation fails
func (h *BalanceHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balanceService.RefreshBalance(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrFailedToComputeBalance.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}

// MarkStale handles POST requests to force the next read to recompute.
//
// Endpoint: POST /api/balance/stale
// Response: 204 No Content
func (h *BalanceHandler) MarkStale(w http.ResponseWriter, _ *http.Request) {
	h.balanceService.MarkStale()
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateCache handles DELETE requests to clear the persisted balance.
//
// Endpoint: DELETE /api/balance/cache
// Response: 204 No Content
// Error: 500 Internal Server Error if the cache could not be cleared
func (h *BalanceHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.balanceService.InvalidateCache(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToInvalidateBalance.Error(), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
