package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// Schema creates the assessments table. Applied by the integration test
// harness and by deployment migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS assessments (
    id           UUID PRIMARY KEY,
    entity_name  TEXT NOT NULL,
    entity_type  TEXT NOT NULL,
    risk_level   TEXT NOT NULL,
    risk_score   DOUBLE PRECISION NOT NULL,
    payload      JSONB NOT NULL,
    started_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_entity_name ON assessments (entity_name);
CREATE INDEX IF NOT EXISTS idx_assessments_risk_level ON assessments (risk_level);
`

// PostgresStore persists assessments in PostgreSQL. The full assessment is
// stored as a JSONB payload; the indexed columns exist for operator queries.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed assessment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the table definition.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure assessments schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, a *domain.Assessment) error {
	if a == nil {
		return fmt.Errorf("assessment is required: %w", sentinel.ErrInvalidInput)
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assessments (id, entity_name, entity_type, risk_level, risk_score, payload, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			risk_level = EXCLUDED.risk_level,
			risk_score = EXCLUDED.risk_score,
			payload = EXCLUDED.payload,
			completed_at = EXCLUDED.completed_at`,
		a.ID, a.Entity.Name, string(a.Entity.Type),
		string(a.Verdict.Level), a.Verdict.Score,
		payload, a.StartedAt, a.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM assessments WHERE id = $1`, id,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	var a domain.Assessment
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode assessment payload: %w", err)
	}
	return &a, nil
}
