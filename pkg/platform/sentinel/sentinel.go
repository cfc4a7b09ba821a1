package sentinel

import "errors"

// Sentinel errors for infrastructure and pipeline facts. Stores, connectors,
// and the matching engine return these (optionally wrapped) so callers can
// translate them into transport responses.
//
// These represent factual states, not validation details:
// - ErrNotFound: entity does not exist in a store
// - ErrInvalidInput: query entity unusable, fatal to that assessment
// - ErrCircuitOpen: connector gated by its breaker, no call attempted
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrCircuitOpen  = errors.New("circuit open")
	ErrUnavailable  = errors.New("unavailable")
)
