package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// InMemoryStore keeps assessments in process memory. Used in tests and for
// single-node deployments without a database.
type InMemoryStore struct {
	mu          sync.RWMutex
	assessments map[uuid.UUID]domain.Assessment
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{assessments: make(map[uuid.UUID]domain.Assessment)}
}

func (s *InMemoryStore) Save(_ context.Context, a *domain.Assessment) error {
	if a == nil {
		return fmt.Errorf("assessment is required: %w", sentinel.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.ID] = *a
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*domain.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := a
	return &copied, nil
}
