package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantpareek96/il-management/internal/domain/session"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

func ledSession(personID uuid.UUID, region string, day time.Time, guests, regs int) session.ParticipationWithMetrics {
	return session.ParticipationWithMetrics{
		PersonID:      personID,
		SessionID:     uuid.New(),
		Date:          day,
		Region:        region,
		Guests:        guests,
		Registrations: regs,
	}
}

func TestComputeLeaderboard_OrdersByMetricDescending(t *testing.T) {
	top := leaderAt("aigerim", "astana")
	mid := leaderAt("daniyar", "astana")
	low := leaderAt("zarina", "astana")
	day := timeutil.Date(2024, time.March, 10)

	sessions := newFakeSessionRepo(
		ledSession(top.ID, "astana", day, 30, 10),
		ledSession(mid.ID, "astana", day, 20, 10),
		ledSession(low.ID, "astana", day, 10, 10),
	)

	h := NewComputeLeaderboardHandler(newFakePersonRepo(top, mid, low), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, top.ID.String(), result.Entries[0].PersonID)
	assert.Equal(t, mid.ID.String(), result.Entries[1].PersonID)
	assert.Equal(t, low.ID.String(), result.Entries[2].PersonID)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, 30.0, result.Entries[0].Value)
}

func TestComputeLeaderboard_TieBreakSessionCountThenID(t *testing.T) {
	a := leaderAt("aigerim", "astana")
	b := leaderAt("daniyar", "astana")
	day := timeutil.Date(2024, time.March, 10)

	// Same total guests; b has more sessions.
	sessions := newFakeSessionRepo(
		ledSession(a.ID, "astana", day, 20, 5),
		ledSession(b.ID, "astana", day, 10, 3),
		ledSession(b.ID, "astana", day.AddDate(0, 0, 1), 10, 2),
	)

	h := NewComputeLeaderboardHandler(newFakePersonRepo(a, b), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, b.ID.String(), result.Entries[0].PersonID)
	assert.Equal(t, a.ID.String(), result.Entries[1].PersonID)
}

func TestComputeLeaderboard_FullTieOrdersByPersonID(t *testing.T) {
	a := leaderAt("aigerim", "astana")
	b := leaderAt("daniyar", "astana")
	day := timeutil.Date(2024, time.March, 10)

	sessions := newFakeSessionRepo(
		ledSession(a.ID, "astana", day, 10, 5),
		ledSession(b.ID, "astana", day, 10, 5),
	)

	h := NewComputeLeaderboardHandler(newFakePersonRepo(a, b), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	first := result.Entries[0].PersonID
	second := result.Entries[1].PersonID
	assert.Less(t, first, second)
}

func TestComputeLeaderboard_EffectivenessExcludesZeroSessions(t *testing.T) {
	active := leaderAt("aigerim", "astana")
	activeZero := leaderAt("daniyar", "astana")
	idle := leaderAt("zarina", "astana")
	day := timeutil.Date(2024, time.March, 10)

	sessions := newFakeSessionRepo(
		ledSession(active.ID, "astana", day, 10, 5),
		ledSession(activeZero.ID, "astana", day, 10, 0),
	)

	h := NewComputeLeaderboardHandler(newFakePersonRepo(active, activeZero, idle), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricEffectiveness})
	require.NoError(t, err)

	// Idle leader is excluded; zero-effectiveness-with-sessions is ranked.
	require.Len(t, result.Entries, 2)
	assert.Equal(t, active.ID.String(), result.Entries[0].PersonID)
	assert.Equal(t, activeZero.ID.String(), result.Entries[1].PersonID)
	assert.Equal(t, 2, result.EligibleCount)
}

func TestComputeLeaderboard_ZeroSessionLeadersRankedForCountMetrics(t *testing.T) {
	active := leaderAt("aigerim", "astana")
	idle := leaderAt("daniyar", "astana")
	day := timeutil.Date(2024, time.March, 10)

	sessions := newFakeSessionRepo(ledSession(active.ID, "astana", day, 10, 5))

	h := NewComputeLeaderboardHandler(newFakePersonRepo(active, idle), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, idle.ID.String(), result.Entries[1].PersonID)
	assert.Equal(t, 0.0, result.Entries[1].Value)
}

func TestComputeLeaderboard_RegionFilter(t *testing.T) {
	astana := leaderAt("aigerim", "astana")
	almaty := leaderAt("daniyar", "almaty")
	day := timeutil.Date(2024, time.March, 10)

	sessions := newFakeSessionRepo(
		ledSession(astana.ID, "astana", day, 10, 5),
		ledSession(almaty.ID, "almaty", day, 30, 15),
	)

	h := NewComputeLeaderboardHandler(newFakePersonRepo(astana, almaty), sessions, nil)
	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests, Region: "astana"})
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, astana.ID.String(), result.Entries[0].PersonID)
}

func TestComputeLeaderboard_LimitCapsResult(t *testing.T) {
	a := leaderAt("aigerim", "astana")
	b := leaderAt("daniyar", "astana")
	c := leaderAt("zarina", "astana")

	h := NewComputeLeaderboardHandler(newFakePersonRepo(a, b, c), newFakeSessionRepo(), nil)

	q := ComputeLeaderboardQuery{Metric: MetricGuests}
	q.SetLimit(2)
	result, err := h.Handle(context.Background(), q)
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2)
	assert.Equal(t, 3, result.EligibleCount)
}

func TestComputeLeaderboard_NonPositiveLimitRejected(t *testing.T) {
	h := NewComputeLeaderboardHandler(newFakePersonRepo(), newFakeSessionRepo(), nil)

	q := ComputeLeaderboardQuery{Metric: MetricGuests}
	q.SetLimit(0)
	_, err := h.Handle(context.Background(), q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestComputeLeaderboard_UnknownMetricRejected(t *testing.T) {
	h := NewComputeLeaderboardHandler(newFakePersonRepo(), newFakeSessionRepo(), nil)

	_, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: "velocity"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestComputeLeaderboard_InvalidRange(t *testing.T) {
	h := NewComputeLeaderboardHandler(newFakePersonRepo(), newFakeSessionRepo(), nil)

	from := timeutil.Date(2024, time.May, 10)
	to := timeutil.Date(2024, time.May, 1)
	_, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests, From: &from, To: &to})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidRange))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric(" Effectiveness ")
	require.NoError(t, err)
	assert.Equal(t, MetricEffectiveness, m)

	_, err = ParseMetric("velocity")
	assert.Error(t, err)
}

func TestComputeLeaderboard_ConfiguredDefaultLimitAppliesWhenUnset(t *testing.T) {
	a := leaderAt("aigerim", "astana")
	b := leaderAt("daniyar", "astana")
	c := leaderAt("zarina", "astana")

	h := NewComputeLeaderboardHandler(newFakePersonRepo(a, b, c), newFakeSessionRepo(), nil,
		WithDefaultLeaderboardLimit(2))

	result, err := h.Handle(context.Background(), ComputeLeaderboardQuery{Metric: MetricGuests})
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2)
	assert.Equal(t, 3, result.EligibleCount)

	// An explicit limit still wins over the configured default.
	q := ComputeLeaderboardQuery{Metric: MetricGuests}
	q.SetLimit(1)
	result, err = h.Handle(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
}
