package testutil

import (
	"database/sql"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/idgen"
	"github.com/ndewijer/Personal-Hub-Backend/internal/kvstore"
	"github.com/ndewijer/Personal-Hub-Backend/internal/mediastore"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
)

// NewTestBalance creates a balance.Service reading from db and caching in the
// kv_store table of the same database.
func NewTestBalance(t *testing.T, db *sql.DB, opts ...balance.Option) *balance.Service {
	t.Helper()

	cache := balance.NewCache(kvstore.NewSQLiteStore(db), zerolog.Nop())
	return balance.NewService(
		repository.NewTransactionRepository(db),
		repository.NewInvestmentRepository(db),
		cache,
		zerolog.Nop(),
		opts...,
	)
}

// NewTestIDGenerator creates an idgen.Generator backed by the id_counter table.
func NewTestIDGenerator(t *testing.T, db *sql.DB) *idgen.Generator {
	t.Helper()

	return idgen.New(repository.NewCounterRepository(db), zerolog.Nop())
}

func NewTestBalanceService(t *testing.T, balanceService *balance.Service) *service.BalanceService {
	t.Helper()

	return service.NewBalanceService(balanceService)
}

func NewTestTransactionService(t *testing.T, db *sql.DB, balanceService *balance.Service) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewTransactionRepository(db),
		NewTestIDGenerator(t, db),
		balanceService,
	)
}

func NewTestInvestmentService(t *testing.T, db *sql.DB, balanceService *balance.Service) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		repository.NewInvestmentRepository(db),
		balanceService,
	)
}

func NewTestNoteService(t *testing.T, db *sql.DB, media mediastore.Remover) *service.NoteService {
	t.Helper()

	return service.NewNoteService(
		repository.NewNoteRepository(db),
		NewTestIDGenerator(t, db),
		media,
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB, balanceService *balance.Service) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, balanceService, map[string]bool{"redis_cache": false})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSequentialID generates a large positive integer ID that does not collide
// with IDs the counter hands out in a fresh database.
//
// Example usage:
//
//	id := testutil.MakeSequentialID()
//	// Returns: "9000000123456"
func MakeSequentialID() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return strconv.FormatInt(9_000_000_000_000+rand.Int63n(1_000_000_000_000), 10)
}

// MakeDescription generates a unique description for testing.
//
// Example usage:
//
//	desc := testutil.MakeDescription("Groceries")
//	// Returns: "Groceries ABC123"
func MakeDescription(base string) string {
	if base == "" {
		base = "Item"
	}
	return base + " " + randomAlphanumeric(6)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
