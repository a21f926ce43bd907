// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/session"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/internal/domain/stats"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE STATS QUERY
// Aggregates one person's session metrics over a date window and evaluates
// the totals against the criteria record resolved for that person.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeStatsQuery holds the parameters of a stats request.
type ComputeStatsQuery struct {
	// PersonID identifies the person whose stats are computed.
	PersonID uuid.UUID

	// From is the inclusive window start. Nil means unbounded.
	From *time.Time

	// To is the inclusive window end. Nil means unbounded.
	To *time.Time

	// RecentLimit caps the recent session list (max 50). Zero picks up
	// the handler's configured default.
	RecentLimit int
}

// DefaultRecentSessionLimit is the recent session list length applied
// when neither the request nor the handler configuration sets one.
const DefaultRecentSessionLimit = 10

// Validate checks the request parameters and fills defaults.
func (q *ComputeStatsQuery) Validate() error {
	if q.PersonID == uuid.Nil {
		return shared.NewDomainError("query", "ComputeStats", shared.ErrInvalidArgument, "person id is required")
	}
	w := timeutil.NewWindow(q.From, q.To)
	if !w.IsValid() {
		return shared.NewDomainError("query", "ComputeStats", shared.ErrInvalidRange, "window start is after window end")
	}
	if q.RecentLimit < 0 {
		return shared.NewDomainError("query", "ComputeStats", shared.ErrInvalidArgument, "recent limit cannot be negative")
	}
	if q.RecentLimit > 50 {
		q.RecentLimit = 50
	}
	if q.RecentLimit == 0 {
		q.RecentLimit = DefaultRecentSessionLimit
	}
	return nil
}

// RecentSessionDTO is one row of the recent session list.
type RecentSessionDTO struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`

	// Date is the session day (YYYY-MM-DD).
	Date string `json:"date"`

	// Location is the session venue.
	Location string `json:"location"`

	// Guests is the guest count recorded for the session.
	Guests int `json:"guests"`

	// Registrations is the registration count recorded for the session.
	Registrations int `json:"registrations"`

	// Effectiveness is registrations/guests for this session.
	Effectiveness float64 `json:"effectiveness"`
}

// TargetCheckDTO reports, per metric, whether the resolved target was met.
// A nil field means the resolved criteria defines no target for it.
type TargetCheckDTO struct {
	GuestsMet        *bool `json:"guests_met,omitempty"`
	RegistrationsMet *bool `json:"registrations_met,omitempty"`
	EffectivenessMet *bool `json:"effectiveness_met,omitempty"`
	AllMet           bool  `json:"all_met"`
}

// ComputeStatsResult is the response of a stats request.
type ComputeStatsResult struct {
	// PersonID identifies the person.
	PersonID string `json:"person_id"`

	// Name is the person's display name.
	Name string `json:"name"`

	// Region is the person's region.
	Region string `json:"region"`

	// Role is the person's role.
	Role string `json:"role"`

	// WindowFrom is the inclusive window start, empty when unbounded.
	WindowFrom string `json:"window_from,omitempty"`

	// WindowTo is the inclusive window end, empty when unbounded.
	WindowTo string `json:"window_to,omitempty"`

	// SessionCount is the number of sessions with metrics in the window.
	SessionCount int `json:"session_count"`

	// TotalGuests is the summed guest count.
	TotalGuests int `json:"total_guests"`

	// TotalRegistrations is the summed registration count.
	TotalRegistrations int `json:"total_registrations"`

	// Effectiveness is total registrations over total guests, 0 when no
	// guests were recorded.
	Effectiveness float64 `json:"effectiveness"`

	// CriteriaID identifies the resolved criteria, empty when none applies.
	CriteriaID string `json:"criteria_id,omitempty"`

	// TargetCheck holds the per-metric evaluation, nil when no criteria
	// applies.
	TargetCheck *TargetCheckDTO `json:"target_check,omitempty"`

	// RecentSessions lists the latest sessions in the window, newest first.
	RecentSessions []RecentSessionDTO `json:"recent_sessions"`

	// GeneratedAt is when this result was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeStatsHandler serves stats requests.
type ComputeStatsHandler struct {
	people      person.Repository
	sessions    session.Repository
	criteria    criteria.Store
	recentLimit int
	now         func() time.Time
}

// StatsOption adjusts optional handler settings.
type StatsOption func(*ComputeStatsHandler)

// WithRecentSessionLimit sets the recent session list length applied to
// requests that leave it unset. Non-positive values are ignored.
func WithRecentSessionLimit(n int) StatsOption {
	return func(h *ComputeStatsHandler) {
		if n > 0 {
			h.recentLimit = n
		}
	}
}

// NewComputeStatsHandler builds a stats handler. The now function is
// injectable for tests; nil means time.Now.
func NewComputeStatsHandler(
	people person.Repository,
	sessions session.Repository,
	store criteria.Store,
	now func() time.Time,
	opts ...StatsOption,
) *ComputeStatsHandler {
	if now == nil {
		now = time.Now
	}
	h := &ComputeStatsHandler{
		people:      people,
		sessions:    sessions,
		criteria:    store,
		recentLimit: DefaultRecentSessionLimit,
		now:         now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle computes the stats for one person.
func (h *ComputeStatsHandler) Handle(ctx context.Context, query ComputeStatsQuery) (*ComputeStatsResult, error) {
	if query.RecentLimit == 0 {
		query.RecentLimit = h.recentLimit
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	p, err := h.people.FindPerson(ctx, query.PersonID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("query", "ComputeStats", shared.ErrNotFound, "person not found", err)
		}
		return nil, shared.WrapError("query", "ComputeStats", err, "failed to load person", err)
	}

	window := timeutil.NewWindow(query.From, query.To)

	rows, err := h.sessions.ListParticipationsWithMetrics(ctx, session.ParticipationFilter{
		PersonID: &query.PersonID,
		Role:     session.ParticipationLeader,
		Window:   window,
	})
	if err != nil {
		return nil, shared.WrapError("query", "ComputeStats", err, "failed to load sessions", err)
	}

	totals := stats.Collect(rows)

	result := &ComputeStatsResult{
		PersonID:           p.ID.String(),
		Name:               p.Name,
		Region:             p.Region,
		Role:               p.Role.String(),
		SessionCount:       totals.Sessions,
		TotalGuests:        totals.Guests,
		TotalRegistrations: totals.Registrations,
		Effectiveness:      totals.Effectiveness(),
		RecentSessions:     h.recentSessions(rows, query.RecentLimit),
		GeneratedAt:        h.now().UTC(),
	}
	if query.From != nil {
		result.WindowFrom = timeutil.FormatDate(*query.From)
	}
	if query.To != nil {
		result.WindowTo = timeutil.FormatDate(*query.To)
	}

	resolved, err := h.resolveCriteria(ctx, p)
	if err != nil {
		return nil, err
	}
	if resolved != nil {
		result.CriteriaID = resolved.ID.String()
		result.TargetCheck = toTargetCheckDTO(stats.CheckTargets(totals, resolved.Targets))
	}

	return result, nil
}

// resolveCriteria loads the criteria set and resolves the record applying
// to the person. Conflicts propagate to the caller.
func (h *ComputeStatsHandler) resolveCriteria(ctx context.Context, p *person.Person) (*criteria.Criteria, error) {
	set, err := h.criteria.ListCriteria(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ComputeStats", err, "failed to load criteria", err)
	}
	return criteria.Resolve(p.Region, p.Role, set)
}

// recentSessions converts the newest rows to DTOs. Rows arrive ordered by
// date descending.
func (h *ComputeStatsHandler) recentSessions(rows []session.ParticipationWithMetrics, limit int) []RecentSessionDTO {
	if limit > len(rows) {
		limit = len(rows)
	}
	dtos := make([]RecentSessionDTO, limit)
	for i := 0; i < limit; i++ {
		r := rows[i]
		dtos[i] = RecentSessionDTO{
			SessionID:     r.SessionID.String(),
			Date:          timeutil.FormatDate(r.Date),
			Location:      r.Location,
			Guests:        r.Guests,
			Registrations: r.Registrations,
			Effectiveness: r.Effectiveness(),
		}
	}
	return dtos
}

func toTargetCheckDTO(c stats.TargetCheck) *TargetCheckDTO {
	return &TargetCheckDTO{
		GuestsMet:        c.GuestsMet,
		RegistrationsMet: c.RegistrationsMet,
		EffectivenessMet: c.EffectivenessMet,
		AllMet:           c.AllMet(),
	}
}
