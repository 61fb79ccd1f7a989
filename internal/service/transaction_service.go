package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/idgen"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
)

// TransactionService handles transaction business logic and keeps the balance
// aggregate in step with every change.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	ids             *idgen.Generator
	balance         *balance.Service
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	ids *idgen.Generator,
	balanceService *balance.Service,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		ids:             ids,
		balance:         balanceService,
	}
}

// ListTransactions retrieves every transaction, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.transactionRepo.ListTransactions(ctx)
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// CreateTransaction stores a validated transaction and applies it to the cached
// balance incrementally.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	now := time.Now()

	transactionDate := today(now)
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		transactionDate = parsed
	}

	transaction := &model.Transaction{
		ID:          s.ids.Next(ctx, idgen.SequenceTransactions),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		IsIncome:    req.IsIncome != nil && *req.IsIncome,
		Date:        transactionDate,
		CreatedAt:   now,
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.balance.ApplyTransaction(ctx, balance.TransactionDelta{
		IsIncome: transaction.IsIncome,
		Amount:   transaction.Amount,
	})

	return transaction, nil
}

// DeleteTransaction removes a transaction and marks the balance stale.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	s.balance.MarkStale()
	return nil
}
