package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/session"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/internal/domain/stats"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE LEADERBOARD QUERY
// Ranks every leader (optionally within a region) by one metric aggregated
// over a date window. Ordering is fully deterministic: metric descending,
// then session count descending, then person id ascending.
// ══════════════════════════════════════════════════════════════════════════════

// Metric names a rankable aggregate.
type Metric string

const (
	MetricGuests        Metric = "guests"
	MetricRegistrations Metric = "registrations"
	MetricEffectiveness Metric = "effectiveness"
)

// IsValid reports whether the metric is one of the known values.
func (m Metric) IsValid() bool {
	switch m {
	case MetricGuests, MetricRegistrations, MetricEffectiveness:
		return true
	}
	return false
}

func (m Metric) String() string { return string(m) }

// ParseMetric converts a raw string into a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.NewDomainError("query", "ParseMetric", shared.ErrInvalidArgument,
			fmt.Sprintf("unknown metric %q", s))
	}
	return m, nil
}

// ComputeLeaderboardQuery holds the parameters of a leaderboard request.
type ComputeLeaderboardQuery struct {
	// Region restricts the ranking to one region (empty = all regions).
	Region string

	// From is the inclusive window start. Nil means unbounded.
	From *time.Time

	// To is the inclusive window end. Nil means unbounded.
	To *time.Time

	// Metric is the aggregate to rank by.
	Metric Metric

	// Limit caps the result length. Leave zero to get the default; set
	// explicitly through SetLimit so that non-positive values are
	// rejected rather than silently defaulted.
	Limit int

	// limitSet distinguishes "caller left limit empty" from "caller sent
	// an explicit value".
	limitSet bool
}

// DefaultLeaderboardLimit is applied when the caller leaves Limit unset.
const DefaultLeaderboardLimit = 50

// SetLimit records an explicit limit. Explicit non-positive limits fail
// validation instead of silently defaulting.
func (q *ComputeLeaderboardQuery) SetLimit(limit int) {
	q.Limit = limit
	q.limitSet = true
}

// Validate checks the request parameters and fills defaults.
func (q *ComputeLeaderboardQuery) Validate() error {
	if !q.Metric.IsValid() {
		return shared.NewDomainError("query", "ComputeLeaderboard", shared.ErrInvalidArgument,
			fmt.Sprintf("unknown metric %q", q.Metric))
	}
	if !timeutil.NewWindow(q.From, q.To).IsValid() {
		return shared.NewDomainError("query", "ComputeLeaderboard", shared.ErrInvalidRange, "window start is after window end")
	}
	if q.limitSet {
		if q.Limit <= 0 {
			return shared.NewDomainError("query", "ComputeLeaderboard", shared.ErrInvalidArgument, "limit must be positive")
		}
		return nil
	}
	if q.Limit < 0 {
		return shared.NewDomainError("query", "ComputeLeaderboard", shared.ErrInvalidArgument, "limit must be positive")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	return nil
}

// LeaderboardEntryDTO is one ranked row.
type LeaderboardEntryDTO struct {
	// Rank is the position in the ranking, starting at 1.
	Rank int `json:"rank"`

	// PersonID identifies the ranked person.
	PersonID string `json:"person_id"`

	// Name is the person's display name.
	Name string `json:"name"`

	// Region is the person's region.
	Region string `json:"region"`

	// Value is the ranked metric value.
	Value float64 `json:"value"`

	// SessionCount is the number of sessions with metrics in the window.
	SessionCount int `json:"session_count"`

	// TotalGuests is the summed guest count.
	TotalGuests int `json:"total_guests"`

	// TotalRegistrations is the summed registration count.
	TotalRegistrations int `json:"total_registrations"`
}

// ComputeLeaderboardResult is the response of a leaderboard request.
type ComputeLeaderboardResult struct {
	// Entries are the ranked rows, best first.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// Metric is the aggregate the ranking is ordered by.
	Metric string `json:"metric"`

	// Region is the region filter applied (empty = all).
	Region string `json:"region,omitempty"`

	// EligibleCount is the number of leaders eligible for ranking before
	// the limit was applied.
	EligibleCount int `json:"eligible_count"`

	// GeneratedAt is when this result was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// ComputeLeaderboardHandler serves leaderboard requests.
type ComputeLeaderboardHandler struct {
	people       person.Repository
	sessions     session.Repository
	defaultLimit int
	now          func() time.Time
}

// LeaderboardOption adjusts optional handler settings.
type LeaderboardOption func(*ComputeLeaderboardHandler)

// WithDefaultLeaderboardLimit sets the result length applied to requests
// that leave the limit unset. Non-positive values are ignored.
func WithDefaultLeaderboardLimit(n int) LeaderboardOption {
	return func(h *ComputeLeaderboardHandler) {
		if n > 0 {
			h.defaultLimit = n
		}
	}
}

// NewComputeLeaderboardHandler builds a leaderboard handler.
func NewComputeLeaderboardHandler(
	people person.Repository,
	sessions session.Repository,
	now func() time.Time,
	opts ...LeaderboardOption,
) *ComputeLeaderboardHandler {
	if now == nil {
		now = time.Now
	}
	h := &ComputeLeaderboardHandler{
		people:       people,
		sessions:     sessions,
		defaultLimit: DefaultLeaderboardLimit,
		now:          now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// entry is the internal aggregation row before conversion to DTO.
type entry struct {
	person *person.Person
	totals stats.Totals
	value  float64
}

// Handle computes the leaderboard. The query is read-only and safe to run
// concurrently.
func (h *ComputeLeaderboardHandler) Handle(ctx context.Context, query ComputeLeaderboardQuery) (*ComputeLeaderboardResult, error) {
	if !query.limitSet && query.Limit == 0 {
		query.Limit = h.defaultLimit
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	leaders, err := h.people.ListLeaders(ctx, query.Region)
	if err != nil {
		return nil, shared.WrapError("query", "ComputeLeaderboard", err, "failed to load leaders", err)
	}

	window := timeutil.NewWindow(query.From, query.To)

	rows, err := h.sessions.ListParticipationsWithMetrics(ctx, session.ParticipationFilter{
		Region: query.Region,
		Role:   session.ParticipationLeader,
		Window: window,
	})
	if err != nil {
		return nil, shared.WrapError("query", "ComputeLeaderboard", err, "failed to load sessions", err)
	}

	entries := h.aggregate(leaders, rows, query.Metric)
	h.order(entries)

	eligible := len(entries)
	if len(entries) > query.Limit {
		entries = entries[:query.Limit]
	}

	return &ComputeLeaderboardResult{
		Entries:       h.toDTOs(entries),
		Metric:        query.Metric.String(),
		Region:        query.Region,
		EligibleCount: eligible,
		GeneratedAt:   h.now().UTC(),
	}, nil
}

// aggregate groups session rows per leader and computes the metric value.
// For the effectiveness metric, leaders with zero sessions in the window
// are excluded from ranking entirely.
func (h *ComputeLeaderboardHandler) aggregate(
	leaders []*person.Person,
	rows []session.ParticipationWithMetrics,
	metric Metric,
) []*entry {
	byPerson := stats.GroupByPerson(rows)

	entries := make([]*entry, 0, len(leaders))
	for _, p := range leaders {
		totals := byPerson[p.ID]
		if metric == MetricEffectiveness && totals.Sessions == 0 {
			continue
		}
		entries = append(entries, &entry{
			person: p,
			totals: totals,
			value:  metricValue(totals, metric),
		})
	}
	return entries
}

// order sorts deterministically: metric descending, session count
// descending, person id ascending.
func (h *ComputeLeaderboardHandler) order(entries []*entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.value != b.value {
			return a.value > b.value
		}
		if a.totals.Sessions != b.totals.Sessions {
			return a.totals.Sessions > b.totals.Sessions
		}
		return a.person.ID.String() < b.person.ID.String()
	})
}

func (h *ComputeLeaderboardHandler) toDTOs(entries []*entry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{
			Rank:               i + 1,
			PersonID:           e.person.ID.String(),
			Name:               e.person.Name,
			Region:             e.person.Region,
			Value:              e.value,
			SessionCount:       e.totals.Sessions,
			TotalGuests:        e.totals.Guests,
			TotalRegistrations: e.totals.Registrations,
		}
	}
	return dtos
}

func metricValue(t stats.Totals, m Metric) float64 {
	switch m {
	case MetricGuests:
		return float64(t.Guests)
	case MetricRegistrations:
		return float64(t.Registrations)
	case MetricEffectiveness:
		return t.Effectiveness()
	}
	return 0
}
