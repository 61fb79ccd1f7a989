package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Persistent cache keys.
const (
	CacheKey       = "balance_cache"
	LastUpdatedKey = "balance_last_updated"
)

// Store is the key/value contract the cache persists through.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// cachePayload is the serialized form under CacheKey. Amounts are written as JSON
// numbers carrying the exact decimal text.
type cachePayload struct {
	TotalIncome  json.Number `json:"totalIncome"`
	TotalExpense json.Number `json:"totalExpense"`
	Balance      json.Number `json:"balance"`
}

// Cache persists an aggregate as two independent keys.
// Load never fails: anything it cannot read is reported as absent.
type Cache struct {
	store  Store
	logger zerolog.Logger
}

// NewCache creates a Cache over store.
func NewCache(store Store, logger zerolog.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Load returns the persisted aggregate, or false when either key is missing or
// malformed. The returned aggregate is never force-staled.
func (c *Cache) Load(ctx context.Context) (Aggregate, bool) {
	raw, err := c.store.Get(ctx, CacheKey)
	if err != nil {
		c.logger.Debug().Err(err).Msg("balance cache miss")
		return Aggregate{}, false
	}

	var payload cachePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.logger.Warn().Err(err).Msg("discarding malformed balance cache entry")
		return Aggregate{}, false
	}

	agg, err := payload.decode()
	if err != nil {
		c.logger.Warn().Err(err).Msg("discarding malformed balance cache entry")
		return Aggregate{}, false
	}

	rawTime, err := c.store.Get(ctx, LastUpdatedKey)
	if err != nil {
		c.logger.Debug().Err(err).Msg("balance cache has no timestamp")
		return Aggregate{}, false
	}

	lastUpdated, err := time.Parse(time.RFC3339Nano, rawTime)
	if err != nil || lastUpdated.IsZero() {
		c.logger.Warn().Str("value", rawTime).Msg("discarding unparseable balance cache timestamp")
		return Aggregate{}, false
	}
	agg.LastUpdated = lastUpdated

	return agg, true
}

// Save writes both keys. Both writes are attempted even if the first fails.
func (c *Cache) Save(ctx context.Context, agg Aggregate) error {
	payload, err := json.Marshal(cachePayload{
		TotalIncome:  json.Number(agg.TotalIncome.String()),
		TotalExpense: json.Number(agg.TotalExpense.String()),
		Balance:      json.Number(agg.NetBalance.String()),
	})
	if err != nil {
		return fmt.Errorf("failed to encode balance cache: %w", err)
	}

	valueErr := c.store.Set(ctx, CacheKey, string(payload))
	timeErr := c.store.Set(ctx, LastUpdatedKey, agg.LastUpdated.UTC().Format(time.RFC3339Nano))

	return errors.Join(valueErr, timeErr)
}

// Invalidate removes both keys.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, CacheKey, LastUpdatedKey); err != nil {
		return fmt.Errorf("failed to invalidate balance cache: %w", err)
	}
	return nil
}

func (p cachePayload) decode() (Aggregate, error) {
	income, err := decimal.NewFromString(p.TotalIncome.String())
	if err != nil {
		return Aggregate{}, fmt.Errorf("totalIncome: %w", err)
	}
	expense, err := decimal.NewFromString(p.TotalExpense.String())
	if err != nil {
		return Aggregate{}, fmt.Errorf("totalExpense: %w", err)
	}
	net, err := decimal.NewFromString(p.Balance.String())
	if err != nil {
		return Aggregate{}, fmt.Errorf("balance: %w", err)
	}
	if income.IsNegative() || expense.IsNegative() {
		return Aggregate{}, fmt.Errorf("negative totals")
	}

	return Aggregate{
		TotalIncome:  income,
		TotalExpense: expense,
		NetBalance:   net,
	}, nil
}
