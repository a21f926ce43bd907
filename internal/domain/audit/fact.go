// Package audit defines the fact emitted when a mutating operation
// completes. Facts are fire-and-forget: consumers record them, the
// emitting operation never depends on the outcome.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Fact describes one completed mutation.
type Fact struct {
	Actor    uuid.UUID
	Action   string
	Entity   string
	EntityID uuid.UUID
	At       time.Time
	Payload  map[string]any
}

// Sink receives facts. Implementations must not block the caller on
// downstream failures.
type Sink interface {
	Emit(ctx context.Context, f Fact)
}

// NopSink discards every fact.
type NopSink struct{}

func (NopSink) Emit(context.Context, Fact) {}
