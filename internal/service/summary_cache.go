package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reviseai-backend/internal/repository"
	"reviseai-backend/pkg/cache"
)

// SummaryTTL bounds how stale a cached session list may get for a user who
// mutates nothing.
const SummaryTTL = 60 * time.Second

// SummaryCache keeps each user's session summaries in Redis so analytics
// views do not hit the database on every request. Entries expire after
// SummaryTTL; mutations evict eagerly through Invalidate. Cache failures are
// logged and treated as misses.
type SummaryCache struct {
	redis *cache.RedisClient
}

func NewSummaryCache(redis *cache.RedisClient) *SummaryCache {
	return &SummaryCache{redis: redis}
}

func summaryKey(userID string) string {
	return fmt.Sprintf("sessions:%s", userID)
}

func (c *SummaryCache) Get(ctx context.Context, userID string) ([]*repository.SessionSummary, bool) {
	data, err := c.redis.Get(ctx, summaryKey(userID))
	if err != nil {
		return nil, false
	}

	var summaries []*repository.SessionSummary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		log.Printf("Failed to unmarshal cached summaries for user %s: %v", userID, err)
		return nil, false
	}

	return summaries, true
}

func (c *SummaryCache) Set(ctx context.Context, userID string, summaries []*repository.SessionSummary) {
	data, err := json.Marshal(summaries)
	if err != nil {
		log.Printf("Failed to marshal summaries for user %s: %v", userID, err)
		return
	}

	if err := c.redis.Set(ctx, summaryKey(userID), data, SummaryTTL); err != nil {
		log.Printf("Failed to cache summaries for user %s: %v", userID, err)
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID string) {
	if err := c.redis.Delete(ctx, summaryKey(userID)); err != nil {
		log.Printf("Failed to invalidate summary cache for user %s: %v", userID, err)
	}
}
