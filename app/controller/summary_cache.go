package controller

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"b-track7/models"
)

// summaryCacheTTL bounds staleness of the dashboard feed between the
// explicit invalidations done after bootstrap runs.
const summaryCacheTTL = 5 * time.Minute

// SummaryCache is a small read-through cache over the summaries list
// query. The dashboard polls this feed far more often than summaries
// change (at most once per scheduled run), so serving from memory keeps
// the read path off the database.
type SummaryCache struct {
	cache *ristretto.Cache
}

// NewSummaryCache creates a new SummaryCache
func NewSummaryCache() (*SummaryCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 24, // ~16 MB of cached summary lists
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}
	return &SummaryCache{cache: cache}, nil
}

func summaryCacheKey(userID string, periodType models.PeriodType) string {
	return userID + ":" + string(periodType)
}

// Get returns the cached summary list, if present.
func (c *SummaryCache) Get(userID string, periodType models.PeriodType) ([]models.InsightSummary, bool) {
	value, found := c.cache.Get(summaryCacheKey(userID, periodType))
	if !found {
		return nil, false
	}
	summaries, ok := value.([]models.InsightSummary)
	return summaries, ok
}

// Set stores a summary list with the cache TTL.
func (c *SummaryCache) Set(userID string, periodType models.PeriodType, summaries []models.InsightSummary) {
	cost := int64(1)
	for _, s := range summaries {
		cost += int64(len(s.Summary) + len(s.TrendHighlight))
	}
	c.cache.SetWithTTL(summaryCacheKey(userID, periodType), summaries, cost, summaryCacheTTL)
}

// Invalidate drops both period types for the user. Called after any
// write that may have stored a new summary.
func (c *SummaryCache) Invalidate(userID string) {
	c.cache.Del(summaryCacheKey(userID, models.PeriodTypeWeekly))
	c.cache.Del(summaryCacheKey(userID, models.PeriodTypeMonthly))
}
