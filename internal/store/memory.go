package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process TopicStore for tests and offline runs.
type MemoryStore struct {
	mu     sync.Mutex
	topics []Topic
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) CreateTopic(_ context.Context, topic *Topic) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *topic
	stored.ID = fmt.Sprintf("topic-%d", s.nextID)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.topics = append(s.topics, stored)
	return stored.ID, nil
}

func (s *MemoryStore) FindTopicsByQuery(_ context.Context, q string) ([]Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = strings.ToLower(q)
	var out []Topic
	// Newest first.
	for i := len(s.topics) - 1; i >= 0; i-- {
		t := s.topics[i]
		if strings.Contains(strings.ToLower(t.Query), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
