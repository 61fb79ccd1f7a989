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

// InvestmentHandler handles HTTP requests for investment endpoints.
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependency.
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// AllInvestments handles GET requests to retrieve every investment.
//
// Endpoint: GET /api/investment
// Response: 200 OK with array of Investment
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) AllInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.investmentService.ListInvestments(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investments)
}

// CreateInvestment handles POST requests to create a new investment.
//
// Endpoint: POST /api/investment
// Request Body: CreateInvestmentRequest (name, amount, profitLoss)
// Response: 201 Created with Investment
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestment(req); err != nil {
		response.RespondValidationError(w, err)
		return
	}

	investment, err := h.investmentService.CreateInvestment(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create investment", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, investment)
}

// UpdateProfitLoss handles PUT requests to set or clear an investment's profit/loss.
//
// Endpoint: PUT /api/investment/{uuid}/profit-loss
// Request Body: UpdateProfitLossRequest (profitLoss, null clears)
// Response: 200 OK with Investment
// Error: 400 Bad Request if investment ID is invalid (validated by middleware) or body is invalid
// Error: 404 Not Found if investment not found
// Error: 500 Internal Server Error if update fails
func (h *InvestmentHandler) UpdateProfitLoss(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateProfitLossRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	investment, err := h.investmentService.UpdateProfitLoss(r.Context(), investmentID, req.ProfitLoss)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvestmentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvestmentNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update investment", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investment)
}

// DeleteInvestment handles DELETE requests to remove an investment.
//
// Endpoint: DELETE /api/investment/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if investment ID is invalid (validated by middleware)
// Error: 404 Not Found if investment not found
// Error: 500 Internal Server Error if deletion fails
func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	if err := h.investmentService.DeleteInvestment(r.Context(), investmentID); err != nil {
		if errors.Is(err, apperrors.ErrInvestmentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvestmentNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete investment", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
