package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/internal/domain/stats"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

func globalGuestsTarget(t *testing.T, guests int) *fakeCriteriaStore {
	t.Helper()
	c, err := criteria.New(uuid.New(), criteria.GlobalScope(),
		criteria.Targets{Guests: &guests}, time.Now())
	require.NoError(t, err)
	return &fakeCriteriaStore{set: []*criteria.Criteria{c}}
}

func TestFilterPeople_CloseToTarget(t *testing.T) {
	near := leaderAt("aigerim", "astana")    // 90% of target
	farOff := leaderAt("daniyar", "astana")  // 50% of target
	reached := leaderAt("zarina", "astana")  // 100% of target
	now := timeutil.Date(2024, time.July, 1)
	day := timeutil.Date(2024, time.June, 15)

	sessions := newFakeSessionRepo(
		ledSession(near.ID, "astana", day, 18, 5),
		ledSession(farOff.ID, "astana", day, 10, 5),
		ledSession(reached.ID, "astana", day, 20, 5),
	)

	h := NewFilterPeopleHandler(newFakePersonRepo(near, farOff, reached), sessions,
		globalGuestsTarget(t, 20), DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterCloseToTarget})
	require.NoError(t, err)

	require.Len(t, result.People, 1)
	assert.Equal(t, near.ID.String(), result.People[0].PersonID)
	assert.InDelta(t, 0.1, result.People[0].Distance, 0.0001)
}

func TestFilterPeople_CloseToTarget_AllDefinedTargetsMustBeClose(t *testing.T) {
	p := leaderAt("aigerim", "astana")
	now := timeutil.Date(2024, time.July, 1)
	day := timeutil.Date(2024, time.June, 15)

	// Guests close, registrations far below their target.
	sessions := newFakeSessionRepo(ledSession(p.ID, "astana", day, 18, 2))

	guests, regs := 20, 10
	c, err := criteria.New(uuid.New(), criteria.GlobalScope(),
		criteria.Targets{Guests: &guests, Registrations: &regs}, time.Now())
	require.NoError(t, err)

	h := NewFilterPeopleHandler(newFakePersonRepo(p), sessions,
		&fakeCriteriaStore{set: []*criteria.Criteria{c}}, DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterCloseToTarget})
	require.NoError(t, err)
	assert.Empty(t, result.People)
}

func TestFilterPeople_CloseToTarget_OrderedNearestFirst(t *testing.T) {
	nearer := leaderAt("aigerim", "astana") // 95%
	farther := leaderAt("daniyar", "astana") // 85%
	now := timeutil.Date(2024, time.July, 1)
	day := timeutil.Date(2024, time.June, 15)

	sessions := newFakeSessionRepo(
		ledSession(farther.ID, "astana", day, 17, 5),
		ledSession(nearer.ID, "astana", day, 19, 5),
	)

	h := NewFilterPeopleHandler(newFakePersonRepo(nearer, farther), sessions,
		globalGuestsTarget(t, 20), DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterCloseToTarget})
	require.NoError(t, err)

	require.Len(t, result.People, 2)
	assert.Equal(t, nearer.ID.String(), result.People[0].PersonID)
	assert.Equal(t, farther.ID.String(), result.People[1].PersonID)
}

func TestFilterPeople_CloseToTarget_NoCriteriaNoMatch(t *testing.T) {
	p := leaderAt("aigerim", "astana")
	now := timeutil.Date(2024, time.July, 1)
	sessions := newFakeSessionRepo(
		ledSession(p.ID, "astana", timeutil.Date(2024, time.June, 15), 18, 5),
	)

	h := NewFilterPeopleHandler(newFakePersonRepo(p), sessions,
		&fakeCriteriaStore{}, DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterCloseToTarget})
	require.NoError(t, err)
	assert.Empty(t, result.People)
}

func TestFilterPeople_CloseToTarget_ConfigurableBand(t *testing.T) {
	p := leaderAt("aigerim", "astana")
	now := timeutil.Date(2024, time.July, 1)
	day := timeutil.Date(2024, time.June, 15)

	// 60% of target: outside the default band, inside a wider one.
	sessions := newFakeSessionRepo(ledSession(p.ID, "astana", day, 12, 5))

	cfg := FilterPeopleConfig{Band: stats.Band{Lower: 0.5, Upper: 1.0}, WindowMonths: 3}
	h := NewFilterPeopleHandler(newFakePersonRepo(p), sessions,
		globalGuestsTarget(t, 20), cfg, fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterCloseToTarget})
	require.NoError(t, err)
	assert.Len(t, result.People, 1)
}

func TestFilterPeople_NotLedInMonths(t *testing.T) {
	now := timeutil.Date(2024, time.July, 1)

	inactive := leaderAt("aigerim", "astana")
	recent := leaderAt("daniyar", "astana")
	never := leaderAt("zarina", "astana")

	sessions := newFakeSessionRepo()
	sessions.setLastLed(inactive.ID, timeutil.Date(2023, time.January, 1))
	sessions.setLastLed(recent.ID, timeutil.Date(2024, time.June, 15))

	h := NewFilterPeopleHandler(newFakePersonRepo(inactive, recent, never), sessions,
		&fakeCriteriaStore{}, DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{
		Filter: FilterNotLedInMonths,
		Months: 6,
	})
	require.NoError(t, err)

	require.Len(t, result.People, 2)
	// Never-led first, then oldest last session.
	assert.Equal(t, never.ID.String(), result.People[0].PersonID)
	assert.Empty(t, result.People[0].LastLedAt)
	assert.Equal(t, inactive.ID.String(), result.People[1].PersonID)
	assert.Equal(t, "2023-01-01", result.People[1].LastLedAt)
}

func TestFilterPeople_NotLedInMonths_ExactCutoffExcluded(t *testing.T) {
	now := timeutil.Date(2024, time.July, 1)
	p := leaderAt("aigerim", "astana")

	sessions := newFakeSessionRepo()
	sessions.setLastLed(p.ID, timeutil.Date(2024, time.January, 1))

	h := NewFilterPeopleHandler(newFakePersonRepo(p), sessions,
		&fakeCriteriaStore{}, DefaultFilterPeopleConfig(), fixedNow(now))

	result, err := h.Handle(context.Background(), FilterPeopleQuery{
		Filter: FilterNotLedInMonths,
		Months: 6,
	})
	require.NoError(t, err)
	assert.Empty(t, result.People)
}

func TestFilterPeople_NonPositiveMonthsRejected(t *testing.T) {
	h := NewFilterPeopleHandler(newFakePersonRepo(), newFakeSessionRepo(),
		&fakeCriteriaStore{}, DefaultFilterPeopleConfig(), nil)

	_, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: FilterNotLedInMonths, Months: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestFilterPeople_UnknownFilterRejected(t *testing.T) {
	h := NewFilterPeopleHandler(newFakePersonRepo(), newFakeSessionRepo(),
		&fakeCriteriaStore{}, DefaultFilterPeopleConfig(), nil)

	_, err := h.Handle(context.Background(), FilterPeopleQuery{Filter: "most_active"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Close_To_Target")
	require.NoError(t, err)
	assert.Equal(t, FilterCloseToTarget, f)

	_, err = ParseFilter("most_active")
	assert.Error(t, err)
}
