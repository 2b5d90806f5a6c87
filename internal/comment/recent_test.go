package comment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appgrid/community-moderation/internal/moderation"
)

// newTestCache creates a RecentCache against a local Redis instance on
// test DB 15. Tests using this helper skip when Redis is unavailable.
func newTestCache(t *testing.T) *RecentCache {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid conflicts
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping: Redis not available: %v", err)
	}

	rdb.FlushDB(ctx)
	t.Cleanup(func() {
		rdb.FlushDB(ctx)
		rdb.Close()
	})

	return NewRecentCache(rdb, time.Minute)
}

func TestRecentCache_RoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	snaps := []moderation.CommentSnapshot{
		{ID: "c1", Content: "first comment", CreatedAt: created},
		{ID: "c2", Content: "second comment", CreatedAt: created.Add(time.Second)},
	}
	for _, snap := range snaps {
		if err := cache.Record(ctx, "user1", snap); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := cache.RecentComments(ctx, "user1")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(got))
	}

	// Newest first.
	if got[0].ID != "c2" || got[1].ID != "c1" {
		t.Errorf("order = [%s %s], want [c2 c1]", got[0].ID, got[1].ID)
	}
	if got[1].Content != "first comment" {
		t.Errorf("Content = %q, want %q", got[1].Content, "first comment")
	}
	if !got[1].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got[1].CreatedAt, created)
	}
}

func TestRecentCache_EmptyUser(t *testing.T) {
	cache := newTestCache(t)

	got, err := cache.RecentComments(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d snapshots for unknown user, want 0", len(got))
	}
}

func TestRecentCache_Trim(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < recentMaxEntries+10; i++ {
		snap := moderation.CommentSnapshot{
			ID:        fmt.Sprintf("c%d", i),
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: time.Now(),
		}
		if err := cache.Record(ctx, "user1", snap); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := cache.RecentComments(ctx, "user1")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != recentMaxEntries {
		t.Errorf("got %d snapshots, want trimmed to %d", len(got), recentMaxEntries)
	}
	// The newest entry survives the trim.
	if got[0].ID != fmt.Sprintf("c%d", recentMaxEntries+9) {
		t.Errorf("newest entry = %s, want c%d", got[0].ID, recentMaxEntries+9)
	}
}

func TestRecentCache_SkipsBadEntries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if err := cache.Record(ctx, "user1", moderation.CommentSnapshot{
		ID: "c1", Content: "good entry", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// Inject a corrupt entry directly.
	if err := cache.client.LPush(ctx, RecentPrefix+"user1", "not json").Err(); err != nil {
		t.Fatalf("LPush: %v", err)
	}

	got, err := cache.RecentComments(ctx, "user1")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("got %+v, want just the valid entry", got)
	}
}

func TestRecentCache_Isolation(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if err := cache.Record(ctx, "user1", moderation.CommentSnapshot{
		ID: "c1", Content: "mine", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := cache.RecentComments(ctx, "user2")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("user2 sees %d of user1's comments, want 0", len(got))
	}
}
