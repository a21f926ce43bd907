package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/session"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestCollect(t *testing.T) {
	rows := []session.ParticipationWithMetrics{
		{Guests: 10, Registrations: 4},
		{Guests: 5, Registrations: 3},
	}

	got := Collect(rows)

	assert.Equal(t, 2, got.Sessions)
	assert.Equal(t, 15, got.Guests)
	assert.Equal(t, 7, got.Registrations)
	assert.InDelta(t, 0.4667, got.Effectiveness(), 0.0001)
}

func TestCollect_Empty(t *testing.T) {
	got := Collect(nil)

	assert.Equal(t, Totals{}, got)
	assert.Equal(t, 0.0, got.Effectiveness())
}

func TestEffectiveness_ZeroGuests(t *testing.T) {
	t1 := Totals{Sessions: 3, Guests: 0, Registrations: 0}
	assert.Equal(t, 0.0, t1.Effectiveness())
}

func TestCheckTargets(t *testing.T) {
	totals := Totals{Sessions: 4, Guests: 20, Registrations: 8}

	check := CheckTargets(totals, criteria.Targets{
		Guests:        intPtr(15),
		Registrations: intPtr(10),
		Effectiveness: floatPtr(0.4),
	})

	assert.True(t, *check.GuestsMet)
	assert.False(t, *check.RegistrationsMet)
	assert.True(t, *check.EffectivenessMet)
	assert.False(t, check.AllMet())
}

func TestCheckTargets_UndefinedMetricsAreNil(t *testing.T) {
	check := CheckTargets(Totals{Guests: 5}, criteria.Targets{Guests: intPtr(5)})

	assert.True(t, *check.GuestsMet)
	assert.Nil(t, check.RegistrationsMet)
	assert.Nil(t, check.EffectivenessMet)
	assert.True(t, check.AllMet())
}

func TestBand_Contains(t *testing.T) {
	b := DefaultBand

	assert.True(t, b.Contains(80, 100))
	assert.True(t, b.Contains(99, 100))
	assert.False(t, b.Contains(100, 100)) // met, not merely close
	assert.False(t, b.Contains(79, 100))
	assert.False(t, b.Contains(50, 0)) // zero target is trivially met
}

func TestWithinBand(t *testing.T) {
	targets := criteria.Targets{Guests: intPtr(20), Registrations: intPtr(10)}

	// Guests at 90%, registrations at 80%: both close.
	near := Totals{Sessions: 2, Guests: 18, Registrations: 8}
	assert.True(t, WithinBand(near, targets, DefaultBand))

	// Guests close but registrations far below their target.
	mixed := Totals{Sessions: 2, Guests: 18, Registrations: 2}
	assert.False(t, WithinBand(mixed, targets, DefaultBand))

	// Guests target already met.
	met := Totals{Sessions: 2, Guests: 20, Registrations: 8}
	assert.False(t, WithinBand(met, targets, DefaultBand))

	assert.False(t, WithinBand(near, criteria.Targets{}, DefaultBand))
}

func TestNormalizedDistance(t *testing.T) {
	totals := Totals{Sessions: 2, Guests: 18, Registrations: 5}
	targets := criteria.Targets{Guests: intPtr(20), Registrations: intPtr(10)}

	// |18-20|/20 = 0.1, |5-10|/10 = 0.5, average 0.3.
	assert.InDelta(t, 0.3, NormalizedDistance(totals, targets), 0.0001)
}

func TestNormalizedDistance_NoUsableTarget(t *testing.T) {
	d := NormalizedDistance(Totals{Guests: 10}, criteria.Targets{Guests: intPtr(0)})
	assert.True(t, math.IsInf(d, 1))
}

func TestGroupByPerson(t *testing.T) {
	alpha := uuid.New()
	beta := uuid.New()
	rows := []session.ParticipationWithMetrics{
		{PersonID: alpha, Guests: 10, Registrations: 4},
		{PersonID: alpha, Guests: 5, Registrations: 3},
		{PersonID: beta, Guests: 2, Registrations: 1},
	}

	byPerson := GroupByPerson(rows)

	assert.Equal(t, Totals{Sessions: 2, Guests: 15, Registrations: 7}, byPerson[alpha])
	assert.Equal(t, Totals{Sessions: 1, Guests: 2, Registrations: 1}, byPerson[beta])

	// Absent people read back as the zero value.
	assert.Equal(t, Totals{}, byPerson[uuid.New()])
}
