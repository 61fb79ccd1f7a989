package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
)

// InvestmentService handles investment business logic.
// Any change to investments marks the balance stale, since profit/loss feeds
// the net balance but has no incremental path.
type InvestmentService struct {
	investmentRepo *repository.InvestmentRepository
	balance        *balance.Service
}

// NewInvestmentService creates a new InvestmentService with the provided dependencies.
func NewInvestmentService(
	investmentRepo *repository.InvestmentRepository,
	balanceService *balance.Service,
) *InvestmentService {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		balance:        balanceService,
	}
}

// ListInvestments retrieves every investment.
func (s *InvestmentService) ListInvestments(ctx context.Context) ([]model.Investment, error) {
	return s.investmentRepo.ListInvestments(ctx)
}

// CreateInvestment stores a validated investment.
func (s *InvestmentService) CreateInvestment(ctx context.Context, req request.CreateInvestmentRequest) (*model.Investment, error) {
	investment := &model.Investment{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Amount:     req.Amount,
		ProfitLoss: req.ProfitLoss,
		CreatedAt:  time.Now(),
	}

	if err := s.investmentRepo.InsertInvestment(ctx, investment); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	s.balance.MarkStale()
	return investment, nil
}

// UpdateProfitLoss sets or clears an investment's profit/loss and returns the updated record.
func (s *InvestmentService) UpdateProfitLoss(ctx context.Context, investmentID string, profitLoss decimal.NullDecimal) (model.Investment, error) {
	if err := s.investmentRepo.UpdateProfitLoss(ctx, investmentID, profitLoss); err != nil {
		return model.Investment{}, err
	}
	s.balance.MarkStale()
	return s.investmentRepo.GetInvestment(ctx, investmentID)
}

// DeleteInvestment removes an investment.
func (s *InvestmentService) DeleteInvestment(ctx context.Context, investmentID string) error {
	if err := s.investmentRepo.DeleteInvestment(ctx, investmentID); err != nil {
		return err
	}
	s.balance.MarkStale()
	return nil
}
