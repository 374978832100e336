package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
)

func TestSummaryCacheDisabled(t *testing.T) {
	var nilCache *SummaryCache
	for name, c := range map[string]*SummaryCache{
		"nil cache":  nilCache,
		"nil client": NewSummaryCache(nil, time.Hour),
	} {
		t.Run(name, func(t *testing.T) {
			if c.Enabled() {
				t.Fatal("cache should be disabled")
			}
			if err := c.Store(context.Background(), &models.RunResult{ID: "x"}); err != nil {
				t.Fatalf("store should be a no-op: %v", err)
			}
			if _, err := c.Latest(context.Background()); !errors.Is(err, ErrCacheMiss) {
				t.Fatalf("expected ErrCacheMiss, got %v", err)
			}
		})
	}
}
