package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ParticipationWithMetrics is a participation row joined to its session and
// the session's metrics. This is the raw material for every aggregate the
// engines compute.
type ParticipationWithMetrics struct {
	PersonID      uuid.UUID
	SessionID     uuid.UUID
	Date          time.Time // date-only, day-truncated UTC
	Location      string
	Region        string // leader's region at query time
	Guests        int
	Registrations int
}

// Effectiveness returns registrations/guests for this row, 0 when guests
// is 0.
func (p ParticipationWithMetrics) Effectiveness() float64 {
	if p.Guests == 0 {
		return 0
	}
	return float64(p.Registrations) / float64(p.Guests)
}

// ParticipationFilter selects participation rows. Exactly one of PersonID
// or Region/all-regions population is used per call site: statistics fetch
// one person, the leaderboard fetches a population.
type ParticipationFilter struct {
	// PersonID restricts rows to one person (nil = whole population).
	PersonID *uuid.UUID

	// Region restricts the population by the person's region
	// (empty = all regions). Ignored when PersonID is set.
	Region string

	// Role restricts by role-in-session. The engines always pass
	// ParticipationLeader.
	Role ParticipationRole

	// Window is the inclusive session-date window; open sides are
	// unbounded.
	Window timeutil.Window
}

// Repository is the read contract over sessions, participations and
// metrics. It carries no business logic; implementations live in the
// infrastructure layer.
type Repository interface {
	// ListParticipationsWithMetrics returns all rows matching the filter,
	// ordered by session date descending. Sessions without a metrics row
	// are excluded.
	ListParticipationsWithMetrics(ctx context.Context, f ParticipationFilter) ([]ParticipationWithMetrics, error)

	// LastSessionDate returns the date of the most recent session in which
	// the person had the given role, across all regions, or nil if there
	// is none.
	LastSessionDate(ctx context.Context, personID uuid.UUID, role ParticipationRole) (*time.Time, error)
}
