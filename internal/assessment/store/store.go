// Package store persists completed assessments.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// Store is the persistence contract for assessments. Implementations must
// be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, a *domain.Assessment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
}
