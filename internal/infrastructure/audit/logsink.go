// Package audit provides audit.Sink implementations. Delivery stays out
// of the core: the engines emit facts, this package decides where they go.
package audit

import (
	"context"

	"github.com/vedantpareek96/il-management/internal/domain/audit"
	"github.com/vedantpareek96/il-management/pkg/logger"
)

// LogSink writes audit facts to the structured log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a log-backed audit sink.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.Default()
	}
	return &LogSink{log: log.With(logger.Component("audit"))}
}

var _ audit.Sink = (*LogSink)(nil)

// Emit records the fact as one log entry.
func (s *LogSink) Emit(_ context.Context, f audit.Fact) {
	s.log.Info("audit fact",
		logger.ActorID(f.Actor.String()),
		logger.String("action", f.Action),
		logger.String("entity", f.Entity),
		logger.String("entity_id", f.EntityID.String()),
		logger.Time("at", f.At),
		logger.Any("payload", f.Payload),
	)
}
