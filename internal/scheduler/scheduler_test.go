package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/testutil"
)

func newBalance(t *testing.T, source *testutil.FakeRecordSource, now *time.Time) *balance.Service {
	t.Helper()
	cache := balance.NewCache(testutil.NewFakeStore(), zerolog.Nop())
	return balance.NewService(source, source, cache, zerolog.Nop(),
		balance.WithClock(func() time.Time { return *now }))
}

func waitTask(t *testing.T, task *balance.RefreshTask) balance.Aggregate {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	agg, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() returned unexpected error: %v", err)
	}
	return agg
}

func TestNew(t *testing.T) {
	now := time.Now()
	svc := newBalance(t, testutil.NewFakeRecordSource(), &now)

	t.Run("accepts descriptors and standard expressions", func(t *testing.T) {
		for _, spec := range []string{"@every 15m", "@hourly", "*/5 * * * *"} {
			if _, err := New(spec, svc, zerolog.Nop()); err != nil {
				t.Errorf("New(%q) returned unexpected error: %v", spec, err)
			}
		}
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		if _, err := New("every fifteen minutes", svc, zerolog.Nop()); err == nil {
			t.Error("Expected error for invalid schedule")
		}
	})
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Run("refreshes when nothing is cached", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		source := testutil.NewFakeRecordSource().WithTransactions(
			model.Transaction{ID: "1", Amount: decimal.NewFromInt(80), IsIncome: true},
		)
		s, err := New("@every 15m", newBalance(t, source, &now), zerolog.Nop())
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}

		task := s.RunOnce(context.Background())
		if task == nil {
			t.Fatal("Expected a refresh task for an empty cache")
		}
		if agg := waitTask(t, task); !agg.NetBalance.Equal(decimal.NewFromInt(80)) {
			t.Errorf("Expected net balance 80, got %s", agg.NetBalance)
		}
	})

	t.Run("skips a fresh aggregate", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		source := testutil.NewFakeRecordSource()
		svc := newBalance(t, source, &now)
		if _, err := svc.Compute(context.Background()); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		s, _ := New("@every 15m", svc, zerolog.Nop())

		now = now.Add(30 * time.Minute)
		if task := s.RunOnce(context.Background()); task != nil {
			t.Error("Expected no refresh for a fresh aggregate")
		}
		if source.FetchCount() != 1 {
			t.Errorf("Expected 1 fetch, got %d", source.FetchCount())
		}
	})

	t.Run("refreshes an aggregate older than the stale threshold", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		source := testutil.NewFakeRecordSource()
		svc := newBalance(t, source, &now)
		if _, err := svc.Compute(context.Background()); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		s, _ := New("@every 15m", svc, zerolog.Nop())

		now = now.Add(balance.StaleAfter + time.Minute)
		task := s.RunOnce(context.Background())
		if task == nil {
			t.Fatal("Expected a refresh task for a stale aggregate")
		}
		if agg := waitTask(t, task); !agg.LastUpdated.Equal(now) {
			t.Errorf("Expected LastUpdated %v, got %v", now, agg.LastUpdated)
		}
	})

	t.Run("refreshes a force-staled aggregate", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		source := testutil.NewFakeRecordSource()
		svc := newBalance(t, source, &now)
		if _, err := svc.Compute(context.Background()); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		svc.MarkStale()
		s, _ := New("@every 15m", svc, zerolog.Nop())

		if task := s.RunOnce(context.Background()); task == nil {
			t.Fatal("Expected a refresh task after MarkStale")
		} else {
			waitTask(t, task)
		}
		if source.FetchCount() != 2 {
			t.Errorf("Expected 2 fetches, got %d", source.FetchCount())
		}
	})

	t.Run("a failed refresh keeps the previous aggregate", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		source := testutil.NewFakeRecordSource().WithTransactions(
			model.Transaction{ID: "1", Amount: decimal.NewFromInt(5), IsIncome: true},
		)
		svc := newBalance(t, source, &now)
		if _, err := svc.Compute(context.Background()); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		svc.MarkStale()
		source.WithError(errors.New("offline"))
		s, _ := New("@every 15m", svc, zerolog.Nop())

		task := s.RunOnce(context.Background())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := task.Wait(ctx); err == nil {
			t.Fatal("Expected refresh error")
		}

		snap, ok := svc.Load(context.Background())
		if !ok || !snap.NetBalance.Equal(decimal.NewFromInt(5)) || !snap.IsStale {
			t.Errorf("Expected previous stale aggregate, got %+v", snap)
		}
	})
}

func TestScheduler_StartStop(t *testing.T) {
	now := time.Now()
	s, err := New("@every 1h", newBalance(t, testutil.NewFakeRecordSource(), &now), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}

	s.Start()
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	// WHY: a second Stop must not block on an already stopped cron
	s.Stop(ctx)
}
