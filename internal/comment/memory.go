package comment

import (
	"context"
	"sync"

	"github.com/appgrid/community-moderation/internal/moderation"
)

// MemoryStore is an in-memory comment history. It stands in for the
// Redis/PostgreSQL history in tests and in environments without duplicate
// detection infrastructure, selected by dependency injection at startup
// rather than nil-checks inside the pipeline.
type MemoryStore struct {
	mu     sync.Mutex
	byUser map[string][]moderation.CommentSnapshot
}

// NewMemoryStore creates an empty in-memory history.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]moderation.CommentSnapshot)}
}

// Record appends a comment to the user's history.
func (m *MemoryStore) Record(_ context.Context, userID string, snap moderation.CommentSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[userID] = append(m.byUser[userID], snap)
	return nil
}

// RecentComments implements moderation.HistoryStore.
func (m *MemoryStore) RecentComments(_ context.Context, userID string) ([]moderation.CommentSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := make([]moderation.CommentSnapshot, len(m.byUser[userID]))
	copy(snaps, m.byUser[userID])
	return snaps, nil
}
