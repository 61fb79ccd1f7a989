package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Personal-Hub-Backend/internal/kvstore"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// FakeStore is an in-memory kvstore.Store with injectable failures.
// It is safe for concurrent use.
type FakeStore struct {
	mu     sync.Mutex
	values map[string]string

	// GetError, SetError and DeleteError are returned by the matching method when set.
	GetError    error
	SetError    error
	DeleteError error

	// SetCount tracks how many times Set was called, including failed calls.
	SetCount int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]string)}
}

// Get returns the stored value or kvstore.ErrNotFound.
func (f *FakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetError != nil {
		return "", f.GetError
	}
	v, ok := f.values[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (f *FakeStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SetCount++
	if f.SetError != nil {
		return f.SetError
	}
	f.values[key] = value
	return nil
}

// Delete removes the given keys.
func (f *FakeStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteError != nil {
		return f.DeleteError
	}
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

// Put seeds a value directly, bypassing SetError and SetCount.
func (f *FakeStore) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Has reports whether key is present.
func (f *FakeStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.values[key]
	return ok
}

// FakeRecordSource serves fixed transactions and investments to the balance
// aggregator, counting every fetch.
//
// Example usage:
//
//	src := testutil.NewFakeRecordSource().
//	    WithTransactions(income, expense).
//	    WithInvestments(fund)
//	svc := balance.NewService(src, src, cache, zerolog.Nop())
type FakeRecordSource struct {
	mu           sync.Mutex
	transactions []model.Transaction
	investments  []model.Investment

	// TransactionsError and InvestmentsError are returned by the matching fetch when set.
	TransactionsError error
	InvestmentsError  error

	// Gate, when non-nil, blocks every fetch until it is closed or the context ends.
	Gate chan struct{}

	transactionCalls int
	investmentCalls  int
}

// NewFakeRecordSource creates an empty FakeRecordSource.
func NewFakeRecordSource() *FakeRecordSource {
	return &FakeRecordSource{}
}

// WithTransactions replaces the served transactions.
func (f *FakeRecordSource) WithTransactions(transactions ...model.Transaction) *FakeRecordSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = transactions
	return f
}

// WithInvestments replaces the served investments.
func (f *FakeRecordSource) WithInvestments(investments ...model.Investment) *FakeRecordSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.investments = investments
	return f
}

// WithError makes both fetches fail with err.
func (f *FakeRecordSource) WithError(err error) *FakeRecordSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TransactionsError = err
	f.InvestmentsError = err
	return f
}

// ListTransactions implements balance.TransactionLister.
func (f *FakeRecordSource) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	f.mu.Lock()
	f.transactionCalls++
	gate := f.Gate
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TransactionsError != nil {
		return nil, f.TransactionsError
	}
	return append([]model.Transaction(nil), f.transactions...), nil
}

// ListInvestments implements balance.InvestmentLister.
func (f *FakeRecordSource) ListInvestments(ctx context.Context) ([]model.Investment, error) {
	f.mu.Lock()
	f.investmentCalls++
	gate := f.Gate
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InvestmentsError != nil {
		return nil, f.InvestmentsError
	}
	return append([]model.Investment(nil), f.investments...), nil
}

// FetchCount returns how many times transactions were fetched.
func (f *FakeRecordSource) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transactionCalls
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeMediaStore records removed attachment URIs.
type FakeMediaStore struct {
	mu      sync.Mutex
	removed []string

	// Errors maps a URI to the error its removal returns.
	Errors map[string]error
}

// NewFakeMediaStore creates an empty FakeMediaStore.
func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{Errors: make(map[string]error)}
}

// Remove implements mediastore.Remover.
func (f *FakeMediaStore) Remove(_ context.Context, uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Errors[uri]; err != nil {
		return err
	}
	f.removed = append(f.removed, uri)
	return nil
}

// Removed returns the URIs removed so far, in call order.
func (f *FakeMediaStore) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}
