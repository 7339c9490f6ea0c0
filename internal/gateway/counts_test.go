package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkoetsier/tenderplan/internal/domain"
)

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// countsFixture builds a client against a counts endpoint with a controllable
// clock and a fetch counter.
func countsFixture(t *testing.T) (*client, *atomic.Int32, *atomic.Bool, func(time.Duration), *recordingLogger) {
	t.Helper()
	var fetches atomic.Int32
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/planning-counts", r.URL.Path)
		fetches.Add(1)
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(t, w, map[string]domain.TenderCounts{
			"t-1": {PlanningDone: int(fetches.Load()), PlanningTotal: 8},
		})
	}))
	t.Cleanup(srv.Close)

	logger := &recordingLogger{}
	gw := New(Config{BaseURL: srv.URL, TimeoutMs: 2000, CountsTTL: 30 * time.Second}, staticToken("secret"), logger)
	c := gw.(*client)

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	advance := func(d time.Duration) { now = now.Add(d) }
	return c, &fetches, &fail, advance, logger
}

func TestAggregateCounts_ServedFromCacheWithinTTL(t *testing.T) {
	c, fetches, _, advance, _ := countsFixture(t)
	ctx := context.Background()

	first, err := c.AggregateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())
	assert.Equal(t, 8, first["t-1"].PlanningTotal)

	advance(29 * time.Second)
	_, err = c.AggregateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "second read within the TTL must hit the cache")
}

func TestAggregateCounts_RefetchesAfterTTL(t *testing.T) {
	c, fetches, _, advance, _ := countsFixture(t)
	ctx := context.Background()

	_, err := c.AggregateCounts(ctx)
	require.NoError(t, err)

	advance(31 * time.Second)
	got, err := c.AggregateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
	assert.Equal(t, 2, got["t-1"].PlanningDone)
}

func TestAggregateCounts_InvalidationBypassesTTL(t *testing.T) {
	c, fetches, _, _, _ := countsFixture(t)
	ctx := context.Background()

	_, err := c.AggregateCounts(ctx)
	require.NoError(t, err)

	c.InvalidateCounts()
	_, err = c.AggregateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load(), "invalidation must force a refetch before the TTL expires")
}

func TestAggregateCounts_StaleFallbackOnFailedRefetch(t *testing.T) {
	c, _, fail, advance, logger := countsFixture(t)
	ctx := context.Background()

	first, err := c.AggregateCounts(ctx)
	require.NoError(t, err)

	fail.Store(true)
	advance(31 * time.Second)
	got, err := c.AggregateCounts(ctx)
	require.NoError(t, err, "a failed refetch serves the stale cache, not an error")
	assert.Equal(t, first, got)
	require.NotEmpty(t, logger.lines)
	assert.Contains(t, logger.lines[0], "stale")
}

func TestAggregateCounts_ReturnsACopy(t *testing.T) {
	c, fetches, _, _, _ := countsFixture(t)
	ctx := context.Background()

	first, err := c.AggregateCounts(ctx)
	require.NoError(t, err)
	first["t-1"] = domain.TenderCounts{}
	delete(first, "t-1")

	second, err := c.AggregateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "still within the TTL")
	require.Contains(t, second, "t-1")
	assert.Equal(t, 8, second["t-1"].PlanningTotal, "caller mutations must not reach the cache")
}

func TestAggregateCounts_FirstFetchFailureIsAnError(t *testing.T) {
	c, _, fail, _, _ := countsFixture(t)
	fail.Store(true)

	_, err := c.AggregateCounts(context.Background())
	require.Error(t, err, "with no cache there is nothing to fall back to")
}

func TestPopulateFromTemplate_RequestShape(t *testing.T) {
	var gotBody populateRequest
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tenders/t-1/populate-templates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeEnvelope(t, w, domain.PopulateResult{PlanningTasksCreated: 5, ChecklistItemsCreated: 3})
	}))

	result, err := c.PopulateFromTemplate(context.Background(), "t-1", "standaard", true)
	require.NoError(t, err)
	assert.Equal(t, populateRequest{TemplateName: "standaard", Overwrite: true}, gotBody)
	assert.Equal(t, 5, result.PlanningTasksCreated)
	assert.Equal(t, 3, result.ChecklistItemsCreated)
	assert.False(t, result.Skipped)
}

func TestPopulateFromTemplate_EmptyName(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.PopulateFromTemplate(context.Background(), "t-1", "  ", false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "template_name", verr.Field)
}

func TestPopulateFromTemplate_SkippedKeepsCountsFresh(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, domain.PopulateResult{Skipped: true, Message: "tender already has items"})
	}))

	result, err := c.PopulateFromTemplate(context.Background(), "t-1", "standaard", false)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, c.countsStale, "a skipped populate changed nothing, the cache stays valid")
}

func TestTemplateNames(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/template-names", r.URL.Path)
		writeEnvelope(t, w, []string{"standaard", "bouw"})
	}))

	names, err := c.TemplateNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"standaard", "bouw"}, names)
}
