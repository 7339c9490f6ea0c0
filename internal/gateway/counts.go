package gateway

import (
	"context"
	"net/http"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

// AggregateCounts returns the per-tender done/total counts. Results are
// cached for the configured TTL and fetched in a single request for all
// visible tenders. On a fetch failure the last known cache is returned
// instead of the error: counts are advisory display data, not authoritative.
func (c *client) AggregateCounts(ctx context.Context) (map[string]domain.TenderCounts, error) {
	c.countsMu.Lock()
	defer c.countsMu.Unlock()

	if c.counts != nil && !c.countsStale && c.now().Sub(c.countsFetched) < c.cfg.CountsTTL {
		return copyCounts(c.counts), nil
	}

	var fetched map[string]domain.TenderCounts
	if err := c.do(ctx, http.MethodGet, "/planning-counts", nil, &fetched); err != nil {
		if c.counts != nil {
			c.logger.Warnf("planning counts refresh failed, serving stale cache: %v", err)
			return copyCounts(c.counts), nil
		}
		return nil, err
	}

	c.counts = fetched
	c.countsFetched = c.now()
	c.countsStale = false
	return copyCounts(c.counts), nil
}

// copyCounts shields the cache from caller mutations.
func copyCounts(m map[string]domain.TenderCounts) map[string]domain.TenderCounts {
	out := make(map[string]domain.TenderCounts, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// InvalidateCounts marks the cached aggregate counts stale. Called after
// every successful mutation so the next read refetches; the stale copy is
// retained as a fallback for failed refetches.
func (c *client) InvalidateCounts() {
	c.countsMu.Lock()
	c.countsStale = true
	c.countsMu.Unlock()
}
