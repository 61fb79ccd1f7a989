// Package idgen hands out sequential, human-readable record IDs.
package idgen

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Sequence names used by the services.
const (
	SequenceTransactions = "transactions"
	SequenceNotes        = "notes"
)

// Incrementer atomically increments a named counter.
type Incrementer interface {
	Increment(ctx context.Context, name string) (int64, error)
}

// Generator turns counter values into IDs. When the counter store fails it falls
// back to the current Unix time in milliseconds, so an ID is always returned.
type Generator struct {
	counters Incrementer
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a Generator.
func New(counters Incrementer, logger zerolog.Logger) *Generator {
	return &Generator{
		counters: counters,
		logger:   logger,
		now:      time.Now,
	}
}

// Next returns the next ID of the given sequence.
func (g *Generator) Next(ctx context.Context, sequence string) string {
	n, err := g.counters.Increment(ctx, sequence)
	if err != nil {
		g.logger.Warn().Err(err).Str("sequence", sequence).Msg("counter unavailable, using timestamp id")
		return strconv.FormatInt(g.now().UnixMilli(), 10)
	}
	return strconv.FormatInt(n, 10)
}
