// Package stats holds the pure aggregation rules: totals over session
// rows, effectiveness, and evaluation of totals against criteria targets.
package stats

import (
	"math"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/session"
)

// Totals is the aggregate over a set of sessions a person took part in.
type Totals struct {
	Sessions      int
	Guests        int
	Registrations int
}

// Collect sums the given participation rows into totals.
func Collect(rows []session.ParticipationWithMetrics) Totals {
	var t Totals
	for _, r := range rows {
		t.Sessions++
		t.Guests += r.Guests
		t.Registrations += r.Registrations
	}
	return t
}

// GroupByPerson sums participation rows into per-person totals. People
// without rows are absent from the map; the zero Totals value stands in
// for them on lookup.
func GroupByPerson(rows []session.ParticipationWithMetrics) map[uuid.UUID]Totals {
	byPerson := make(map[uuid.UUID]Totals)
	for _, r := range rows {
		byPerson[r.PersonID] = byPerson[r.PersonID].Add(Totals{
			Sessions:      1,
			Guests:        r.Guests,
			Registrations: r.Registrations,
		})
	}
	return byPerson
}

// Add merges another totals value into t.
func (t Totals) Add(other Totals) Totals {
	t.Sessions += other.Sessions
	t.Guests += other.Guests
	t.Registrations += other.Registrations
	return t
}

// Effectiveness is total registrations divided by total guests, 0 when
// there are no guests.
func (t Totals) Effectiveness() float64 {
	if t.Guests == 0 {
		return 0
	}
	return float64(t.Registrations) / float64(t.Guests)
}

// TargetCheck is the outcome of comparing totals against one criteria
// record. Each Met field is nil when that metric has no target.
type TargetCheck struct {
	GuestsMet        *bool
	RegistrationsMet *bool
	EffectivenessMet *bool
}

// AllMet reports whether every defined target is met. True when no target
// is defined.
func (c TargetCheck) AllMet() bool {
	for _, m := range []*bool{c.GuestsMet, c.RegistrationsMet, c.EffectivenessMet} {
		if m != nil && !*m {
			return false
		}
	}
	return true
}

// CheckTargets evaluates totals against targets. A metric meets its target
// when the actual value is greater than or equal to it.
func CheckTargets(t Totals, targets criteria.Targets) TargetCheck {
	var c TargetCheck
	if targets.Guests != nil {
		met := t.Guests >= *targets.Guests
		c.GuestsMet = &met
	}
	if targets.Registrations != nil {
		met := t.Registrations >= *targets.Registrations
		c.RegistrationsMet = &met
	}
	if targets.Effectiveness != nil {
		met := t.Effectiveness() >= *targets.Effectiveness
		c.EffectivenessMet = &met
	}
	return c
}

// Band is the close-to-target interval expressed as fractions of the
// target value. A metric with actual value in [Lower*target, Upper*target)
// counts as close but not met.
type Band struct {
	Lower float64
	Upper float64
}

// DefaultBand covers [80%, 100%) of the target.
var DefaultBand = Band{Lower: 0.8, Upper: 1.0}

// Contains reports whether actual falls inside the band around target.
// Targets of zero are never "close": zero is trivially met.
func (b Band) Contains(actual, target float64) bool {
	if target <= 0 {
		return false
	}
	ratio := actual / target
	return ratio >= b.Lower && ratio < b.Upper
}

// WithinBand reports whether every defined target has its actual value
// inside the band, i.e. the person is close to all their targets without
// having reached them. False when no target is defined.
func WithinBand(t Totals, targets criteria.Targets, b Band) bool {
	if targets.IsEmpty() {
		return false
	}
	if targets.Guests != nil && !b.Contains(float64(t.Guests), float64(*targets.Guests)) {
		return false
	}
	if targets.Registrations != nil && !b.Contains(float64(t.Registrations), float64(*targets.Registrations)) {
		return false
	}
	if targets.Effectiveness != nil && !b.Contains(t.Effectiveness(), *targets.Effectiveness) {
		return false
	}
	return true
}

// NormalizedDistance is the average of |actual-target|/target across the
// defined targets, used to order close-to-target results from nearest to
// farthest. Targets of zero are skipped. Returns +Inf when no usable
// target exists so such entries sort last.
func NormalizedDistance(t Totals, targets criteria.Targets) float64 {
	var sum float64
	var n int

	add := func(actual, target float64) {
		if target <= 0 {
			return
		}
		sum += math.Abs(actual-target) / target
		n++
	}

	if targets.Guests != nil {
		add(float64(t.Guests), float64(*targets.Guests))
	}
	if targets.Registrations != nil {
		add(float64(t.Registrations), float64(*targets.Registrations))
	}
	if targets.Effectiveness != nil {
		add(t.Effectiveness(), *targets.Effectiveness)
	}

	if n == 0 {
		return math.Inf(1)
	}
	return sum / float64(n)
}
