package comment

import (
	"context"
	"testing"
	"time"

	"github.com/appgrid/community-moderation/internal/moderation"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	snap := moderation.CommentSnapshot{
		ID: "c1", Content: "hello", CreatedAt: time.Now(),
	}
	if err := store.Record(ctx, "user1", snap); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.RecentComments(ctx, "user1")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("got %+v, want the recorded snapshot", got)
	}

	// Callers get a copy, not the backing slice.
	got[0].Content = "mutated"
	again, _ := store.RecentComments(ctx, "user1")
	if again[0].Content != "hello" {
		t.Error("returned slice aliases internal state")
	}

	other, err := store.RecentComments(ctx, "user2")
	if err != nil {
		t.Fatalf("RecentComments: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user2 sees %d snapshots, want 0", len(other))
	}
}
