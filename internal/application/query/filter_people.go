package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/session"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/internal/domain/stats"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FILTER PEOPLE QUERY
// Selects leaders by predicate: close to their criteria targets, or not
// having led a session for a given number of months. "Now" is always
// injected, never read from a global clock.
// ══════════════════════════════════════════════════════════════════════════════

// Filter names a people selection predicate.
type Filter string

const (
	FilterCloseToTarget  Filter = "close_to_target"
	FilterNotLedInMonths Filter = "not_led_in_months"
)

// IsValid reports whether the filter is one of the known values.
func (f Filter) IsValid() bool {
	switch f {
	case FilterCloseToTarget, FilterNotLedInMonths:
		return true
	}
	return false
}

func (f Filter) String() string { return string(f) }

// ParseFilter converts a raw string into a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", shared.NewDomainError("query", "ParseFilter", shared.ErrInvalidArgument,
			fmt.Sprintf("unknown filter %q", s))
	}
	return f, nil
}

// FilterPeopleQuery holds the parameters of a people filter request.
type FilterPeopleQuery struct {
	// Filter is the predicate to apply.
	Filter Filter

	// Region restricts candidates to one region (empty = all regions).
	Region string

	// Months is the inactivity horizon for the not_led_in_months filter.
	// Ignored by close_to_target.
	Months int

	// Limit caps the result length (default 50).
	Limit int
}

// Validate checks the request parameters and fills defaults.
func (q *FilterPeopleQuery) Validate() error {
	if !q.Filter.IsValid() {
		return shared.NewDomainError("query", "FilterPeople", shared.ErrInvalidArgument,
			fmt.Sprintf("unknown filter %q", q.Filter))
	}
	if q.Filter == FilterNotLedInMonths && q.Months <= 0 {
		return shared.NewDomainError("query", "FilterPeople", shared.ErrInvalidArgument, "months must be positive")
	}
	if q.Limit < 0 {
		return shared.NewDomainError("query", "FilterPeople", shared.ErrInvalidArgument, "limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	return nil
}

// FilteredPersonDTO is one selected person.
type FilteredPersonDTO struct {
	// PersonID identifies the person.
	PersonID string `json:"person_id"`

	// Name is the person's display name.
	Name string `json:"name"`

	// Region is the person's region.
	Region string `json:"region"`

	// SessionCount is the session count over the evaluation window
	// (close_to_target only).
	SessionCount int `json:"session_count,omitempty"`

	// Distance is the normalized distance to the resolved targets
	// (close_to_target only): smaller is closer.
	Distance float64 `json:"distance,omitempty"`

	// LastLedAt is the date of the most recent session led, empty when
	// the person has never led (not_led_in_months only).
	LastLedAt string `json:"last_led_at,omitempty"`
}

// FilterPeopleResult is the response of a people filter request.
type FilterPeopleResult struct {
	// People are the selected leaders.
	People []FilteredPersonDTO `json:"people"`

	// Filter is the predicate that was applied.
	Filter string `json:"filter"`

	// Region is the region filter applied (empty = all).
	Region string `json:"region,omitempty"`

	// GeneratedAt is when this result was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// FilterPeopleConfig carries the tunable evaluation parameters.
type FilterPeopleConfig struct {
	// Band is the close-to-target tolerance interval.
	Band stats.Band

	// WindowMonths is the trailing evaluation window for close_to_target.
	WindowMonths int
}

// DefaultFilterPeopleConfig evaluates the trailing three months against
// the [80%, 100%) band.
func DefaultFilterPeopleConfig() FilterPeopleConfig {
	return FilterPeopleConfig{Band: stats.DefaultBand, WindowMonths: 3}
}

// FilterPeopleHandler serves people filter requests.
type FilterPeopleHandler struct {
	people   person.Repository
	sessions session.Repository
	criteria criteria.Store
	cfg      FilterPeopleConfig
	now      func() time.Time
}

// NewFilterPeopleHandler builds a people filter handler. The now function
// is injectable for tests; nil means time.Now.
func NewFilterPeopleHandler(
	people person.Repository,
	sessions session.Repository,
	store criteria.Store,
	cfg FilterPeopleConfig,
	now func() time.Time,
) *FilterPeopleHandler {
	if now == nil {
		now = time.Now
	}
	if cfg.WindowMonths <= 0 {
		cfg.WindowMonths = DefaultFilterPeopleConfig().WindowMonths
	}
	if cfg.Band == (stats.Band{}) {
		cfg.Band = stats.DefaultBand
	}
	return &FilterPeopleHandler{
		people:   people,
		sessions: sessions,
		criteria: store,
		cfg:      cfg,
		now:      now,
	}
}

// Handle runs the requested filter over the candidate leaders.
func (h *FilterPeopleHandler) Handle(ctx context.Context, query FilterPeopleQuery) (*FilterPeopleResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	leaders, err := h.people.ListLeaders(ctx, query.Region)
	if err != nil {
		return nil, shared.WrapError("query", "FilterPeople", err, "failed to load leaders", err)
	}

	var people []FilteredPersonDTO
	switch query.Filter {
	case FilterCloseToTarget:
		people, err = h.closeToTarget(ctx, leaders, query.Region)
	case FilterNotLedInMonths:
		people, err = h.notLedInMonths(ctx, leaders, query.Months)
	}
	if err != nil {
		return nil, err
	}

	if len(people) > query.Limit {
		people = people[:query.Limit]
	}

	return &FilterPeopleResult{
		People:      people,
		Filter:      query.Filter.String(),
		Region:      query.Region,
		GeneratedAt: h.now().UTC(),
	}, nil
}

// closeToTarget selects leaders whose every defined target is inside the
// tolerance band over the trailing evaluation window, ordered from nearest
// to farthest.
func (h *FilterPeopleHandler) closeToTarget(ctx context.Context, leaders []*person.Person, region string) ([]FilteredPersonDTO, error) {
	set, err := h.criteria.ListCriteria(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "FilterPeople", err, "failed to load criteria", err)
	}

	window := timeutil.TrailingMonths(h.now(), h.cfg.WindowMonths)

	rows, err := h.sessions.ListParticipationsWithMetrics(ctx, session.ParticipationFilter{
		Region: region,
		Role:   session.ParticipationLeader,
		Window: window,
	})
	if err != nil {
		return nil, shared.WrapError("query", "FilterPeople", err, "failed to load sessions", err)
	}

	byPerson := stats.GroupByPerson(rows)

	type scored struct {
		dto      FilteredPersonDTO
		distance float64
	}
	var selected []scored

	for _, p := range leaders {
		resolved, err := criteria.Resolve(p.Region, p.Role, set)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			continue
		}
		totals := byPerson[p.ID]
		if !stats.WithinBand(totals, resolved.Targets, h.cfg.Band) {
			continue
		}
		d := stats.NormalizedDistance(totals, resolved.Targets)
		selected = append(selected, scored{
			dto: FilteredPersonDTO{
				PersonID:     p.ID.String(),
				Name:         p.Name,
				Region:       p.Region,
				SessionCount: totals.Sessions,
				Distance:     d,
			},
			distance: d,
		})
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].distance != selected[j].distance {
			return selected[i].distance < selected[j].distance
		}
		return selected[i].dto.PersonID < selected[j].dto.PersonID
	})

	dtos := make([]FilteredPersonDTO, len(selected))
	for i, s := range selected {
		dtos[i] = s.dto
	}
	return dtos, nil
}

// notLedInMonths selects leaders whose most recent led session is older
// than the horizon, or who have never led. Never-led people sort first,
// then oldest last session first.
func (h *FilterPeopleHandler) notLedInMonths(ctx context.Context, leaders []*person.Person, months int) ([]FilteredPersonDTO, error) {
	cutoff := timeutil.MonthsBefore(h.now(), months)

	type inactive struct {
		dto     FilteredPersonDTO
		lastLed *time.Time
	}
	var selected []inactive

	for _, p := range leaders {
		last, err := h.sessions.LastSessionDate(ctx, p.ID, session.ParticipationLeader)
		if err != nil {
			return nil, shared.WrapError("query", "FilterPeople", err, "failed to load last session date", err)
		}
		if last != nil && !last.Before(cutoff) {
			continue
		}
		dto := FilteredPersonDTO{
			PersonID: p.ID.String(),
			Name:     p.Name,
			Region:   p.Region,
		}
		if last != nil {
			dto.LastLedAt = timeutil.FormatDate(*last)
		}
		selected = append(selected, inactive{dto: dto, lastLed: last})
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		switch {
		case a.lastLed == nil && b.lastLed != nil:
			return true
		case a.lastLed != nil && b.lastLed == nil:
			return false
		case a.lastLed != nil && b.lastLed != nil && !a.lastLed.Equal(*b.lastLed):
			return a.lastLed.Before(*b.lastLed)
		}
		return a.dto.PersonID < b.dto.PersonID
	})

	dtos := make([]FilteredPersonDTO, len(selected))
	for i, s := range selected {
		dtos[i] = s.dto
	}
	return dtos, nil
}
