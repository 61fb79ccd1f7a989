package service_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/logging"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
	"github.com/ndewijer/Personal-Hub-Backend/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestRemovedAttachments(t *testing.T) {
	tests := []struct {
		name          string
		before, after []string
		want          []string
	}{
		{"nothing removed", []string{"a", "b"}, []string{"a", "b", "c"}, nil},
		{"some removed", []string{"a", "b", "c"}, []string{"b", "d"}, []string{"a", "c"}},
		{"all removed", []string{"a", "b"}, nil, []string{"a", "b"}},
		{"no attachments before", nil, []string{"a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.RemovedAttachments(tt.before, tt.after)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RemovedAttachments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionService(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns sequential ids and updates the balance incrementally", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewTransaction().Income().WithAmount("100").Build(t, db)
		testutil.NewTransaction().Expense().WithAmount("40").Build(t, db)

		bal := testutil.NewTestBalance(t, db)
		if _, err := bal.Compute(ctx); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		svc := testutil.NewTestTransactionService(t, db, bal)

		created, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			Description: "  Coffee ",
			Amount:      decimal.RequireFromString("20"),
			IsIncome:    boolPtr(false),
			Date:        "2024-05-01",
		})
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if created.ID != "1" {
			t.Errorf("Expected first sequential id '1', got %q", created.ID)
		}
		if created.Description != "Coffee" {
			t.Errorf("Expected trimmed description, got %q", created.Description)
		}
		if !created.Date.Equal(testutil.Date(2024, 5, 1)) {
			t.Errorf("Unexpected date %v", created.Date)
		}

		snap, ok := bal.Load(ctx)
		if !ok {
			t.Fatal("Expected cached balance")
		}
		if !snap.TotalExpense.Equal(decimal.NewFromInt(60)) || !snap.NetBalance.Equal(decimal.NewFromInt(40)) {
			t.Errorf("Expected {100, 60, 40}, got %+v", snap.Aggregate)
		}

		second, _ := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			Description: "Refund",
			Amount:      decimal.NewFromInt(1),
			IsIncome:    boolPtr(true),
		})
		if second.ID != "2" {
			t.Errorf("Expected second sequential id '2', got %q", second.ID)
		}
		if second.Date.IsZero() {
			t.Error("Expected missing date to default to today")
		}
	})

	t.Run("create rejects malformed date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, testutil.NewTestBalance(t, db))

		_, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			Description: "x",
			Amount:      decimal.NewFromInt(1),
			IsIncome:    boolPtr(true),
			Date:        "01/05/2024",
		})
		if err == nil {
			t.Error("Expected error for malformed date")
		}
		testutil.AssertRowCount(t, db, "transactions", 0)
	})

	t.Run("delete marks the balance stale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		tx := testutil.NewTransaction().Build(t, db)
		bal := testutil.NewTestBalance(t, db)
		_, _ = bal.Compute(ctx)
		svc := testutil.NewTestTransactionService(t, db, bal)

		if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		snap, _ := bal.Load(ctx)
		if !snap.IsStale {
			t.Error("Expected balance to be stale after delete")
		}
	})

	t.Run("create after delete does not resurrect the deleted amount", func(t *testing.T) {
		// WHY: a delete force-stales the balance. The create that follows must not
		// stamp the pre-delete totals fresh, or the deleted income lingers for an hour.
		db := testutil.SetupTestDB(t)
		income := testutil.NewTransaction().Income().WithAmount("100").Build(t, db)
		testutil.NewTransaction().Expense().WithAmount("40").Build(t, db)

		bal := testutil.NewTestBalance(t, db)
		if _, err := bal.Compute(ctx); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		svc := testutil.NewTestTransactionService(t, db, bal)

		if err := svc.DeleteTransaction(ctx, income.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}
		if _, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			Description: "Lunch",
			Amount:      decimal.NewFromInt(10),
			IsIncome:    boolPtr(false),
		}); err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		snap, ok := bal.Load(ctx)
		if !ok || !snap.IsStale {
			t.Fatalf("Expected balance to stay stale until recomputed, got %+v", snap)
		}

		got, err := bal.Balance(ctx)
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if got.IsStale {
			t.Error("Expected a recomputed balance")
		}
		if !got.TotalIncome.IsZero() || !got.TotalExpense.Equal(decimal.NewFromInt(50)) ||
			!got.NetBalance.Equal(decimal.NewFromInt(-50)) {
			t.Errorf("Expected {0, 50, -50}, got %+v", got.Aggregate)
		}
	})

	t.Run("delete of missing transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db, testutil.NewTestBalance(t, db))

		if err := svc.DeleteTransaction(ctx, "99"); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

func TestInvestmentService(t *testing.T) {
	ctx := context.Background()

	t.Run("mutations mark the balance stale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		bal := testutil.NewTestBalance(t, db)
		svc := testutil.NewTestInvestmentService(t, db, bal)

		assertStale := func(t *testing.T, step string) {
			t.Helper()
			snap, _ := bal.Load(ctx)
			if !snap.IsStale {
				t.Errorf("Expected balance to be stale after %s", step)
			}
		}

		_, _ = bal.Compute(ctx)
		inv, err := svc.CreateInvestment(ctx, request.CreateInvestmentRequest{
			Name:   "ETF",
			Amount: decimal.NewFromInt(1000),
		})
		if err != nil {
			t.Fatalf("CreateInvestment() returned unexpected error: %v", err)
		}
		assertStale(t, "create")

		_, _ = bal.Refresh(ctx)
		updated, err := svc.UpdateProfitLoss(ctx, inv.ID, decimal.NewNullDecimal(decimal.NewFromInt(30)))
		if err != nil {
			t.Fatalf("UpdateProfitLoss() returned unexpected error: %v", err)
		}
		if !updated.ProfitLossOrZero().Equal(decimal.NewFromInt(30)) {
			t.Errorf("Expected profit/loss 30, got %s", updated.ProfitLossOrZero())
		}
		assertStale(t, "update")

		snap, err := bal.Balance(ctx)
		if err != nil {
			t.Fatalf("Balance() returned unexpected error: %v", err)
		}
		if !snap.NetBalance.Equal(decimal.NewFromInt(30)) {
			t.Errorf("Expected recomputed net balance 30, got %s", snap.NetBalance)
		}

		if err := svc.DeleteInvestment(ctx, inv.ID); err != nil {
			t.Fatalf("DeleteInvestment() returned unexpected error: %v", err)
		}
		assertStale(t, "delete")
	})

	t.Run("update of missing investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db, testutil.NewTestBalance(t, db))

		_, err := svc.UpdateProfitLoss(ctx, testutil.MakeID(), decimal.NullDecimal{})
		if !errors.Is(err, apperrors.ErrInvestmentNotFound) {
			t.Errorf("Expected ErrInvestmentNotFound, got %v", err)
		}
	})
}

func TestNoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("update removes dropped attachments only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		media := testutil.NewFakeMediaStore()
		svc := testutil.NewTestNoteService(t, db, media)
		note := testutil.NewNote().WithAttachments("gs://m/a", "gs://m/b", "gs://m/c").Build(t, db)

		updated, err := svc.UpdateNote(ctx, note.ID, request.UpdateNoteRequest{
			Attachments: &[]string{"gs://m/b", "gs://m/d"},
		})
		if err != nil {
			t.Fatalf("UpdateNote() returned unexpected error: %v", err)
		}

		if got := media.Removed(); !reflect.DeepEqual(got, []string{"gs://m/a", "gs://m/c"}) {
			t.Errorf("Expected a and c removed, got %v", got)
		}
		if !reflect.DeepEqual(updated.Attachments, []string{"gs://m/b", "gs://m/d"}) {
			t.Errorf("Unexpected attachments %v", updated.Attachments)
		}
		if updated.Title != note.Title {
			t.Errorf("Expected title to be kept, got %q", updated.Title)
		}
	})

	t.Run("update without attachments keeps them", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		media := testutil.NewFakeMediaStore()
		svc := testutil.NewTestNoteService(t, db, media)
		note := testutil.NewNote().WithAttachments("gs://m/a").Build(t, db)

		updated, err := svc.UpdateNote(ctx, note.ID, request.UpdateNoteRequest{Title: strPtr("New")})
		if err != nil {
			t.Fatalf("UpdateNote() returned unexpected error: %v", err)
		}
		if len(media.Removed()) != 0 {
			t.Errorf("Expected no removals, got %v", media.Removed())
		}
		if updated.Title != "New" || len(updated.Attachments) != 1 {
			t.Errorf("Unexpected note %+v", updated)
		}
	})

	t.Run("media failure does not fail the update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		media := testutil.NewFakeMediaStore()
		media.Errors["gs://m/a"] = errors.New("permission denied")
		svc := testutil.NewTestNoteService(t, db, media)
		note := testutil.NewNote().WithAttachments("gs://m/a", "gs://m/b").Build(t, db)

		_, err := svc.UpdateNote(ctx, note.ID, request.UpdateNoteRequest{Attachments: &[]string{}})
		if err != nil {
			t.Fatalf("Expected media failure to be logged only, got %v", err)
		}
		if got := media.Removed(); !reflect.DeepEqual(got, []string{"gs://m/b"}) {
			t.Errorf("Expected remaining removal to proceed, got %v", got)
		}

		stored, _ := svc.GetNote(ctx, note.ID)
		if len(stored.Attachments) != 0 {
			t.Errorf("Expected attachments cleared, got %v", stored.Attachments)
		}
	})

	t.Run("media failure log carries the request id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		media := testutil.NewFakeMediaStore()
		media.Errors["gs://m/a"] = errors.New("permission denied")

		var logs bytes.Buffer
		svc := service.NewNoteService(
			repository.NewNoteRepository(db),
			testutil.NewTestIDGenerator(t, db),
			media,
			logging.NewWithWriter(&logs),
		)
		note := testutil.NewNote().WithAttachments("gs://m/a").Build(t, db)

		reqCtx := logging.WithRequestID(ctx, "req-42")
		if _, err := svc.UpdateNote(reqCtx, note.ID, request.UpdateNoteRequest{Attachments: &[]string{}}); err != nil {
			t.Fatalf("UpdateNote() returned unexpected error: %v", err)
		}

		// WHY: service logs must be traceable to the HTTP request that caused them
		if !strings.Contains(logs.String(), `"request_id":"req-42"`) {
			t.Errorf("Expected request id in failure log, got %s", logs.String())
		}
	})

	t.Run("delete removes every attachment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		media := testutil.NewFakeMediaStore()
		svc := testutil.NewTestNoteService(t, db, media)
		note := testutil.NewNote().WithAttachments("gs://m/a", "gs://m/b").Build(t, db)

		if err := svc.DeleteNote(ctx, note.ID); err != nil {
			t.Fatalf("DeleteNote() returned unexpected error: %v", err)
		}
		if got := media.Removed(); !reflect.DeepEqual(got, []string{"gs://m/a", "gs://m/b"}) {
			t.Errorf("Expected both attachments removed, got %v", got)
		}
		testutil.AssertRowCount(t, db, "notes", 0)
	})

	t.Run("create and missing note", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestNoteService(t, db, nil)

		note, err := svc.CreateNote(ctx, request.CreateNoteRequest{Title: "Hello", Attachments: []string{" gs://m/x "}})
		if err != nil {
			t.Fatalf("CreateNote() returned unexpected error: %v", err)
		}
		if note.ID != "1" || note.Attachments[0] != "gs://m/x" {
			t.Errorf("Unexpected note %+v", note)
		}

		if _, err := svc.UpdateNote(ctx, "42", request.UpdateNoteRequest{}); !errors.Is(err, apperrors.ErrNoteNotFound) {
			t.Errorf("Expected ErrNoteNotFound, got %v", err)
		}
		if err := svc.DeleteNote(ctx, "42"); !errors.Is(err, apperrors.ErrNoteNotFound) {
			t.Errorf("Expected ErrNoteNotFound, got %v", err)
		}
	})
}

func TestBalanceService(t *testing.T) {
	ctx := context.Background()

	t.Run("cached balance absent before first computation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestBalanceService(t, testutil.NewTestBalance(t, db))

		if _, err := svc.GetCachedBalance(ctx); !errors.Is(err, apperrors.ErrBalanceNotCached) {
			t.Errorf("Expected ErrBalanceNotCached, got %v", err)
		}
	})

	t.Run("response is rounded to two places", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewTransaction().Income().WithAmount("10.005").Build(t, db)
		testutil.NewTransaction().Expense().WithAmount("3.333").Build(t, db)
		svc := testutil.NewTestBalanceService(t, testutil.NewTestBalance(t, db))

		resp, err := svc.GetBalance(ctx)
		if err != nil {
			t.Fatalf("GetBalance() returned unexpected error: %v", err)
		}
		if resp.TotalIncome != 10.01 || resp.TotalExpense != 3.33 || resp.Balance != 6.67 {
			t.Errorf("Unexpected rounding %+v", resp)
		}
		if resp.LastUpdated == nil || resp.IsStale {
			t.Errorf("Expected fresh balance with timestamp, got %+v", resp)
		}
	})

	t.Run("stale flag and invalidation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestBalanceService(t, testutil.NewTestBalance(t, db))

		if _, err := svc.RefreshBalance(ctx); err != nil {
			t.Fatalf("RefreshBalance() returned unexpected error: %v", err)
		}
		svc.MarkStale()
		resp, err := svc.GetCachedBalance(ctx)
		if err != nil || !resp.IsStale {
			t.Errorf("Expected stale cached balance, got %+v (err %v)", resp, err)
		}

		if err := svc.InvalidateCache(ctx); err != nil {
			t.Fatalf("InvalidateCache() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "kv_store", 0)
		if _, err := svc.GetCachedBalance(ctx); !errors.Is(err, apperrors.ErrBalanceNotCached) {
			t.Errorf("Expected ErrBalanceNotCached after invalidation, got %v", err)
		}
	})
}

func TestSystemService(t *testing.T) {
	ctx := context.Background()

	t.Run("health reports balance freshness", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		bal := testutil.NewTestBalance(t, db)
		svc := testutil.NewTestSystemService(t, db, bal)

		status, err := svc.CheckHealth(ctx)
		if err != nil {
			t.Fatalf("CheckHealth() returned unexpected error: %v", err)
		}
		if status.Status != "healthy" || status.Balance != "missing" || status.BalanceUpdated != nil {
			t.Errorf("Unexpected status before computation: %+v", status)
		}

		if _, err := bal.Compute(ctx); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		status, _ = svc.CheckHealth(ctx)
		if status.Balance != "fresh" || status.BalanceUpdated == nil {
			t.Errorf("Expected fresh balance, got %+v", status)
		}

		bal.MarkStale()
		status, _ = svc.CheckHealth(ctx)
		// WHY: Evaluate treats a force-staled aggregate as missing
		if status.Balance != "missing" || status.Status != "healthy" {
			t.Errorf("Expected healthy service with missing balance, got %+v", status)
		}
	})

	t.Run("health fails when the database is closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db, testutil.NewTestBalance(t, db))
		db.Close()

		status, err := svc.CheckHealth(ctx)
		if err == nil {
			t.Fatal("Expected error for closed database")
		}
		if status.Status != "unhealthy" || status.Database != "disconnected" || status.Error == "" {
			t.Errorf("Unexpected status %+v", status)
		}
	})

	t.Run("version matches the embedded migrations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db, testutil.NewTestBalance(t, db))

		info, err := svc.CheckVersion()
		if err != nil {
			t.Fatalf("CheckVersion() returned unexpected error: %v", err)
		}
		if info.MigrationNeeded {
			t.Errorf("Expected migrated test database, got %+v", info)
		}
		if info.DbVersion != "2" {
			t.Errorf("Expected schema version 2, got %s", info.DbVersion)
		}
	})
}
