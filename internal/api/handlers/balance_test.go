package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
	"github.com/ndewijer/Personal-Hub-Backend/internal/testutil"
)

func setupBalanceHandler(t *testing.T) (*BalanceHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	bs := testutil.NewTestBalanceService(t, testutil.NewTestBalance(t, db))
	return NewBalanceHandler(bs), db
}

func decodeBalance(t *testing.T, w *httptest.ResponseRecorder) model.BalanceResponse {
	t.Helper()
	var resp model.BalanceResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode balance response: %v", err)
	}
	return resp
}

func TestBalanceHandler_GetBalance(t *testing.T) {
	t.Run("computes the balance on first request", func(t *testing.T) {
		handler, db := setupBalanceHandler(t)
		testutil.NewTransaction().Income().WithAmount("500").Build(t, db)
		testutil.NewTransaction().Expense().WithAmount("120").Build(t, db)
		testutil.NewInvestment().WithProfitLoss("30").Build(t, db)

		w := httptest.NewRecorder()
		handler.GetBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := decodeBalance(t, w)
		if resp.TotalIncome != 500 || resp.TotalExpense != 120 || resp.Balance != 410 {
			t.Errorf("Unexpected balance %+v", resp)
		}
		if resp.IsStale || resp.LastUpdated == nil {
			t.Errorf("Expected fresh balance with timestamp, got %+v", resp)
		}
	})

	t.Run("returns 503 with the last known value when recomputation fails", func(t *testing.T) {
		source := testutil.NewFakeRecordSource()
		store := testutil.NewFakeStore()
		bal := balance.NewService(source, source, balance.NewCache(store, zerolog.Nop()), zerolog.Nop())

		source.WithTransactions(model.Transaction{ID: "1", Amount: decimal.NewFromInt(10), IsIncome: true})
		if _, err := bal.Compute(context.Background()); err != nil {
			t.Fatalf("Compute() returned unexpected error: %v", err)
		}
		bal.MarkStale()
		source.WithError(errors.New("record store offline"))

		handler := NewBalanceHandler(testutil.NewTestBalanceService(t, bal))
		w := httptest.NewRecorder()
		handler.GetBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}

		var resp BalanceErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Balance == nil || resp.Balance.TotalIncome != 10 || !resp.Balance.IsStale {
			t.Errorf("Expected stale fallback balance, got %+v", resp.Balance)
		}
	})

	t.Run("returns 503 without a balance when nothing is known", func(t *testing.T) {
		handler, db := setupBalanceHandler(t)
		db.Close()

		w := httptest.NewRecorder()
		handler.GetBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}

		var resp BalanceErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Balance != nil {
			t.Errorf("Expected no fallback balance, got %+v", resp.Balance)
		}
	})
}

func TestBalanceHandler_Cache(t *testing.T) {
	handler, db := setupBalanceHandler(t)
	testutil.NewTransaction().Income().WithAmount("75.5").Build(t, db)

	t.Run("cached balance is 404 before first computation", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetCachedBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance/cached", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("refresh computes and caches", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.RefreshBalance(w, httptest.NewRequest(http.MethodPost, "/api/balance/refresh", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if resp := decodeBalance(t, w); resp.Balance != 75.5 {
			t.Errorf("Expected balance 75.5, got %v", resp.Balance)
		}

		w = httptest.NewRecorder()
		handler.GetCachedBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance/cached", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := decodeBalance(t, w)
		if resp.Balance != 75.5 || resp.IsStale {
			t.Errorf("Unexpected cached balance %+v", resp)
		}
		if resp.LastUpdated == nil || time.Since(*resp.LastUpdated) > time.Minute {
			t.Errorf("Expected recent timestamp, got %v", resp.LastUpdated)
		}
	})

	t.Run("mark stale flags the cached balance", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.MarkStale(w, httptest.NewRequest(http.MethodPost, "/api/balance/stale", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler.GetCachedBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance/cached", nil))
		if resp := decodeBalance(t, w); !resp.IsStale {
			t.Error("Expected stale cached balance")
		}
	})

	t.Run("invalidate clears the cache", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.InvalidateCache(w, httptest.NewRequest(http.MethodDelete, "/api/balance/cache", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "kv_store", 0)

		w = httptest.NewRecorder()
		handler.GetCachedBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance/cached", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after invalidation, got %d", w.Code)
		}
	})
}
