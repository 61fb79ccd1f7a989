package service

import (
	"context"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// BalanceService adapts the balance aggregate to API responses.
type BalanceService struct {
	balance *balance.Service
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(balanceService *balance.Service) *BalanceService {
	return &BalanceService{balance: balanceService}
}

// GetBalance returns the aggregate for display, recomputing when nothing usable is cached.
// On a failed recomputation the last known value is returned together with the error,
// or a zero balance when there is none.
func (s *BalanceService) GetBalance(ctx context.Context) (model.BalanceResponse, error) {
	snap, err := s.balance.Balance(ctx)
	return toBalanceResponse(snap), err
}

// GetCachedBalance returns the cached aggregate without fetching.
// Returns apperrors.ErrBalanceNotCached when nothing is cached.
func (s *BalanceService) GetCachedBalance(ctx context.Context) (model.BalanceResponse, error) {
	snap, ok := s.balance.Load(ctx)
	if !ok {
		return model.BalanceResponse{}, apperrors.ErrBalanceNotCached
	}
	return toBalanceResponse(snap), nil
}

// RefreshBalance recomputes unconditionally.
func (s *BalanceService) RefreshBalance(ctx context.Context) (model.BalanceResponse, error) {
	agg, err := s.balance.Refresh(ctx)
	if err != nil {
		return model.BalanceResponse{}, err
	}
	return toBalanceResponse(balance.Snapshot{Aggregate: agg}), nil
}

// MarkStale forces the next read to recompute.
func (s *BalanceService) MarkStale() {
	s.balance.MarkStale()
}

// InvalidateCache clears the persisted balance.
func (s *BalanceService) InvalidateCache(ctx context.Context) error {
	return s.balance.Invalidate(ctx)
}

func toBalanceResponse(snap balance.Snapshot) model.BalanceResponse {
	resp := model.BalanceResponse{
		TotalIncome:  round(snap.TotalIncome),
		TotalExpense: round(snap.TotalExpense),
		Balance:      round(snap.NetBalance),
		IsStale:      snap.IsStale,
	}
	if !snap.LastUpdated.IsZero() {
		lastUpdated := snap.LastUpdated.UTC()
		resp.LastUpdated = &lastUpdated
	}
	return resp
}
