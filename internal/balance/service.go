package balance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/logging"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// TransactionLister fetches every transaction in the record store.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

// InvestmentLister fetches every investment in the record store.
type InvestmentLister interface {
	ListInvestments(ctx context.Context) ([]model.Investment, error)
}

// computeTimeout bounds a shared recomputation, which outlives the callers
// that started it.
const computeTimeout = 30 * time.Second

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service owns the process-wide balance aggregate.
//
// All mutations of the in-memory aggregate happen under mu, so readers never see
// a half-applied update. Overlapping recomputations are last-write-wins.
type Service struct {
	transactions TransactionLister
	investments  InvestmentLister
	cache        *Cache
	logger       zerolog.Logger
	now          func() time.Time

	mu      sync.Mutex
	current Aggregate
	loaded  bool // the persistent cache has been consulted
	partial bool // current was built by ApplyTransaction without a computed base

	flights singleflight.Group
	work    sync.WaitGroup // shared recomputations and refresh tasks in progress

	refreshMu sync.Mutex
	inflight  *RefreshTask
}

// NewService creates a Service. Nothing is read until the first call.
func NewService(
	transactions TransactionLister,
	investments InvestmentLister,
	cache *Cache,
	logger zerolog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		transactions: transactions,
		investments:  investments,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current aggregate without touching the record store.
// The persistent cache is consulted once, the first time memory is empty.
// Returns false when no aggregate exists.
func (s *Service) Load(ctx context.Context) (Snapshot, bool) {
	s.hydrate(ctx)

	s.mu.Lock()
	agg := s.current
	s.mu.Unlock()

	if agg.LastUpdated.IsZero() {
		return Snapshot{}, false
	}
	return s.snapshot(agg), true
}

// Balance returns an aggregate suitable for display.
//
// A missing or force-staled aggregate is recomputed before returning. An aggregate
// older than StaleAfter is returned as-is with IsStale set and a background refresh
// is started. On a failed recomputation the last known snapshot (if any) is
// returned together with the error.
func (s *Service) Balance(ctx context.Context) (Snapshot, error) {
	snap, ok := s.Load(ctx)

	switch Evaluate(snap.LastUpdated, snap.Stale, s.now()) {
	case FreshnessMissing:
		agg, err := s.Compute(ctx)
		if err != nil {
			if ok {
				return snap, err
			}
			return Snapshot{}, err
		}
		return s.snapshot(agg), nil
	case FreshnessStale:
		s.RefreshAsync(context.WithoutCancel(ctx))
		return snap, nil
	default:
		return snap, nil
	}
}

// Compute recomputes the aggregate from the record store, unless the in-memory
// aggregate is younger than DebounceWindow, in which case it is returned unchanged.
// Concurrent callers share one computation.
func (s *Service) Compute(ctx context.Context) (Aggregate, error) {
	s.hydrate(ctx)

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if withinDebounce(current, s.now()) {
		s.logger.Debug().Time("last_updated", current.LastUpdated).Msg("balance recompute debounced")
		return current, nil
	}
	return s.recompute(ctx)
}

// Refresh recomputes the aggregate unconditionally.
func (s *Service) Refresh(ctx context.Context) (Aggregate, error) {
	return s.recompute(ctx)
}

// ApplyTransaction adjusts the in-memory aggregate by a single new transaction
// without refetching, and writes the result through to the persistent cache.
//
// NetBalance is recomputed as income minus expense only; investment profit/loss
// included by Compute is dropped until the next full computation.
// When no aggregate exists yet, or the current one is force-staled (a record was
// deleted or changed in a way a delta cannot express), the delta is still applied
// but the result stays stale, as do later updates on top of it, until a full
// computation. Such partial aggregates are not written through.
func (s *Service) ApplyTransaction(ctx context.Context, delta TransactionDelta) Aggregate {
	s.hydrate(ctx)

	s.mu.Lock()
	base := s.current
	if base.LastUpdated.IsZero() || base.Stale {
		s.partial = true
	}

	if delta.IsIncome {
		base.TotalIncome = base.TotalIncome.Add(delta.Amount)
	} else {
		base.TotalExpense = base.TotalExpense.Add(delta.Amount)
	}
	base.NetBalance = base.TotalIncome.Sub(base.TotalExpense)
	base.LastUpdated = s.now()
	base.Stale = s.partial
	partial := s.partial

	s.current = base
	s.mu.Unlock()

	// Persisted values carry no stale flag.
	if !partial {
		s.persist(ctx, base)
	}
	return base
}

// MarkStale forces the next Balance call to recompute. Persisted data is untouched.
func (s *Service) MarkStale() {
	s.mu.Lock()
	s.current.Stale = true
	s.mu.Unlock()

	s.logger.Debug().Msg("balance marked stale")
}

// Invalidate clears the persistent cache and drops the in-memory timestamp.
// The in-memory aggregate is force-staled even when clearing the cache fails.
func (s *Service) Invalidate(ctx context.Context) error {
	err := s.cache.Invalidate(ctx)

	s.mu.Lock()
	s.current.Stale = true
	s.current.LastUpdated = time.Time{}
	s.loaded = true
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToInvalidateBalance, err)
	}
	return nil
}

// hydrate fills memory from the persistent cache the first time it is needed.
// A forced stale flag set before hydration survives it.
func (s *Service) hydrate(ctx context.Context) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return
	}

	cached, ok := s.cache.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	if ok && s.current.LastUpdated.IsZero() {
		cached.Stale = s.current.Stale
		s.current = cached
	}
	s.loaded = true
}

func (s *Service) snapshot(agg Aggregate) Snapshot {
	return Snapshot{
		Aggregate: agg,
		IsStale:   Evaluate(agg.LastUpdated, agg.Stale, s.now()) != FreshnessFresh,
	}
}

// recompute joins the in-flight computation or starts one. The computation runs
// detached from ctx so one caller going away does not fail the others; ctx only
// bounds how long this caller waits.
func (s *Service) recompute(ctx context.Context) (Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return Aggregate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeBalance, err)
	}

	ch := s.flights.DoChan("balance", func() (any, error) {
		s.work.Add(1)
		defer s.work.Done()

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		return s.compute(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Aggregate{}, res.Err
		}
		if res.Shared {
			logger := logging.For(ctx, s.logger)
			logger.Debug().Msg("balance recompute shared with concurrent caller")
		}
		return res.Val.(Aggregate), nil
	case <-ctx.Done():
		return Aggregate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeBalance, ctx.Err())
	}
}

// Drain waits until background recomputations and refresh tasks started before
// the call have finished, or until ctx ends.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.work.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// compute fetches both collections concurrently, sums them and commits the result.
// Nothing is committed if either fetch fails or ctx is cancelled.
func (s *Service) compute(ctx context.Context) (Aggregate, error) {
	var (
		transactions []model.Transaction
		investments  []model.Investment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		investments, err = s.investments.ListInvestments(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch investments: %w", err)
		}
		return nil
	})

	logger := logging.For(ctx, s.logger)

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("balance computation failed")
		return Aggregate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeBalance, err)
	}
	if err := ctx.Err(); err != nil {
		return Aggregate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeBalance, err)
	}

	agg := sum(transactions, investments)
	agg.LastUpdated = s.now()

	s.mu.Lock()
	s.current = agg
	s.loaded = true
	s.partial = false
	s.mu.Unlock()

	logger.Info().
		Int("transactions", len(transactions)).
		Int("investments", len(investments)).
		Str("net_balance", agg.NetBalance.String()).
		Msg("balance recomputed")

	s.persist(ctx, agg)
	return agg, nil
}

// persist writes through to the cache. Failures are logged and swallowed.
func (s *Service) persist(ctx context.Context, agg Aggregate) {
	if err := s.cache.Save(context.WithoutCancel(ctx), agg); err != nil {
		logger := logging.For(ctx, s.logger)
		logger.Warn().Err(err).Msg("failed to persist balance cache")
	}
}

func sum(transactions []model.Transaction, investments []model.Investment) Aggregate {
	var agg Aggregate
	for _, tx := range transactions {
		if tx.IsIncome {
			agg.TotalIncome = agg.TotalIncome.Add(tx.Amount)
		} else {
			agg.TotalExpense = agg.TotalExpense.Add(tx.Amount)
		}
	}

	profitLoss := decimal.Zero
	for _, inv := range investments {
		profitLoss = profitLoss.Add(inv.ProfitLossOrZero())
	}

	agg.NetBalance = agg.TotalIncome.Sub(agg.TotalExpense).Add(profitLoss)
	return agg
}
