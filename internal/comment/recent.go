package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appgrid/community-moderation/internal/moderation"
)

const (
	// RecentPrefix is the Redis key prefix for per-user recent-comment lists.
	RecentPrefix = "comments:recent:"

	// recentMaxEntries caps the list length per user. The duplicate window
	// is minutes long; nobody legitimately posts more than this inside it.
	recentMaxEntries = 50
)

// recentEntry is the JSON shape of one cached comment.
type recentEntry struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Ts      int64  `json:"ts"` // unix millis
}

// RecentCache keeps each user's latest comments in a Redis list so the
// duplicate detector can read history without touching PostgreSQL:
//
//	Key:   comments:recent:<user_id>
//	Value: JSON entries, newest first
//	TTL:   refreshed on every write
type RecentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecentCache creates a recent-comment cache. The TTL should comfortably
// exceed the duplicate-check window so entries outlive every check that
// might need them.
func NewRecentCache(client *redis.Client, ttl time.Duration) *RecentCache {
	return &RecentCache{client: client, ttl: ttl}
}

// Record prepends a comment to the user's recent list, trims it to the cap,
// and refreshes the TTL, all in one pipeline.
func (c *RecentCache) Record(ctx context.Context, userID string, snap moderation.CommentSnapshot) error {
	data, err := json.Marshal(recentEntry{
		ID:      snap.ID,
		Content: snap.Content,
		Ts:      snap.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("comment: marshal recent entry: %w", err)
	}

	key := RecentPrefix + userID
	pipe := c.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, recentMaxEntries-1)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("comment: record recent: %w", err)
	}
	return nil
}

// RecentComments implements moderation.HistoryStore. Entries that fail to
// unmarshal are skipped rather than failing the whole read. No time filter
// is applied; the duplicate detector windows client-side.
func (c *RecentCache) RecentComments(ctx context.Context, userID string) ([]moderation.CommentSnapshot, error) {
	entries, err := c.client.LRange(ctx, RecentPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("comment: read recent: %w", err)
	}

	snaps := make([]moderation.CommentSnapshot, 0, len(entries))
	for _, raw := range entries {
		var e recentEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Printf("[comment] skipping bad recent entry for user=%s: %v", userID, err)
			continue
		}
		snaps = append(snaps, moderation.CommentSnapshot{
			ID:        e.ID,
			Content:   e.Content,
			CreatedAt: time.UnixMilli(e.Ts),
		})
	}
	return snaps, nil
}

// History reads recent comments from the cache first and falls back to the
// durable store when the cache errors or has nothing for the user (cold
// start after a Redis flush or TTL expiry).
type History struct {
	cache *RecentCache
	store *Store
}

// NewHistory combines the Redis cache and the PostgreSQL store into one
// moderation.HistoryStore.
func NewHistory(cache *RecentCache, store *Store) *History {
	return &History{cache: cache, store: store}
}

// RecentComments implements moderation.HistoryStore.
func (h *History) RecentComments(ctx context.Context, userID string) ([]moderation.CommentSnapshot, error) {
	snaps, err := h.cache.RecentComments(ctx, userID)
	if err == nil && len(snaps) > 0 {
		return snaps, nil
	}
	if err != nil {
		log.Printf("[comment] recent cache read failed for user=%s, falling back to postgres: %v", userID, err)
	}
	return h.store.RecentComments(ctx, userID)
}
