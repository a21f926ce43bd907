// Package session contains the session domain model: introduction sessions,
// participation rows linking people to sessions, and per-session metrics.
// Sessions and participations are created by the registration flow outside
// this core; the core reads and aggregates them.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ParticipationRole is a person's role within a single session.
type ParticipationRole string

const (
	// ParticipationLeader marks the person who led the session. Only
	// leader participations count toward statistics.
	ParticipationLeader ParticipationRole = "LEADER"

	// ParticipationRegistrationExpert marks a supporting participant who
	// handled registrations.
	ParticipationRegistrationExpert ParticipationRole = "REGISTRATION_EXPERT"

	// ParticipationRoomCaptain marks the room captain.
	ParticipationRoomCaptain ParticipationRole = "ROOM_CAPTAIN"
)

// IsValid checks whether the role is one of the known values.
func (r ParticipationRole) IsValid() bool {
	switch r {
	case ParticipationLeader, ParticipationRegistrationExpert, ParticipationRoomCaptain:
		return true
	}
	return false
}

// String returns the string representation.
func (r ParticipationRole) String() string { return string(r) }

// ParseParticipationRole parses a string into a ParticipationRole.
func ParseParticipationRole(s string) (ParticipationRole, error) {
	r := ParticipationRole(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("session", "ParseParticipationRole", shared.ErrInvalidArgument, "unknown participation role: "+s)
	}
	return r, nil
}

// Session is a single introduction event. Immutable after creation.
type Session struct {
	ID        uuid.UUID
	Date      time.Time // date-only, day-truncated UTC
	Location  string
	Notes     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// Participation links a person to a session with a role-in-session.
// A given (person, session, role) triple appears at most once.
type Participation struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	PersonID  uuid.UUID
	Role      ParticipationRole
}

// Metrics holds the outcome counters of one session. Exactly one row per
// session. registrations <= guests is enforced at write time and assumed
// everywhere else.
type Metrics struct {
	SessionID     uuid.UUID
	Guests        int
	Registrations int
	SubmittedBy   uuid.UUID
	SubmittedAt   time.Time
}

// NewMetrics validates and builds a Metrics value.
func NewMetrics(sessionID uuid.UUID, guests, registrations int, submittedBy uuid.UUID, submittedAt time.Time) (Metrics, error) {
	if guests < 0 || registrations < 0 {
		return Metrics{}, shared.NewDomainError("session", "NewMetrics", shared.ErrInvalidArgument, "counts must be non-negative")
	}
	if registrations > guests {
		return Metrics{}, shared.NewDomainError("session", "NewMetrics", shared.ErrInvalidArgument, "registrations cannot exceed guests")
	}
	return Metrics{
		SessionID:     sessionID,
		Guests:        guests,
		Registrations: registrations,
		SubmittedBy:   submittedBy,
		SubmittedAt:   submittedAt,
	}, nil
}

// Effectiveness returns registrations/guests for this session, 0 when the
// session had no guests.
func (m Metrics) Effectiveness() float64 {
	if m.Guests == 0 {
		return 0
	}
	return float64(m.Registrations) / float64(m.Guests)
}
