package balance

import "time"

const (
	// StaleAfter is the age beyond which a cached aggregate is served but flagged stale.
	StaleAfter = time.Hour

	// DebounceWindow is the age under which Compute returns the cached aggregate
	// instead of fetching again.
	DebounceWindow = 5 * time.Minute
)

// Freshness is the staleness verdict for a cached aggregate.
type Freshness int

const (
	// FreshnessMissing means there is nothing usable; recompute before returning data.
	FreshnessMissing Freshness = iota
	// FreshnessStale means the cached value may be shown but should be refreshed.
	FreshnessStale
	// FreshnessFresh means the cached value can be shown as-is.
	FreshnessFresh
)

func (f Freshness) String() string {
	switch f {
	case FreshnessMissing:
		return "missing"
	case FreshnessStale:
		return "stale"
	case FreshnessFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// Evaluate applies the staleness policy to an aggregate's metadata.
func Evaluate(lastUpdated time.Time, stale bool, now time.Time) Freshness {
	if lastUpdated.IsZero() || stale {
		return FreshnessMissing
	}
	if now.Sub(lastUpdated) > StaleAfter {
		return FreshnessStale
	}
	return FreshnessFresh
}

// withinDebounce reports whether a is recent enough to skip a recomputation.
// A force-staled aggregate never debounces.
func withinDebounce(a Aggregate, now time.Time) bool {
	if a.LastUpdated.IsZero() || a.Stale {
		return false
	}
	return now.Sub(a.LastUpdated) < DebounceWindow
}
