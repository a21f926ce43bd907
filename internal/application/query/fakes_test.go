package query

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/session"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// fakePersonRepo is an in-memory person.Repository for handler tests.
type fakePersonRepo struct {
	people map[uuid.UUID]*person.Person
}

func newFakePersonRepo(people ...*person.Person) *fakePersonRepo {
	m := make(map[uuid.UUID]*person.Person, len(people))
	for _, p := range people {
		m[p.ID] = p
	}
	return &fakePersonRepo{people: m}
}

func (r *fakePersonRepo) FindPerson(_ context.Context, id uuid.UUID) (*person.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePersonRepo) ListLeaders(_ context.Context, region string) ([]*person.Person, error) {
	var out []*person.Person
	for _, p := range r.people {
		if !p.IsLeader() {
			continue
		}
		if region != "" && p.Region != region {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeSessionRepo is an in-memory session.Repository.
type fakeSessionRepo struct {
	rows    []session.ParticipationWithMetrics
	lastLed map[uuid.UUID]time.Time
}

func newFakeSessionRepo(rows ...session.ParticipationWithMetrics) *fakeSessionRepo {
	return &fakeSessionRepo{rows: rows, lastLed: make(map[uuid.UUID]time.Time)}
}

func (r *fakeSessionRepo) setLastLed(id uuid.UUID, t time.Time) {
	r.lastLed[id] = t
}

func (r *fakeSessionRepo) ListParticipationsWithMetrics(_ context.Context, f session.ParticipationFilter) ([]session.ParticipationWithMetrics, error) {
	var out []session.ParticipationWithMetrics
	for _, row := range r.rows {
		if f.PersonID != nil && row.PersonID != *f.PersonID {
			continue
		}
		if f.Region != "" && row.Region != f.Region {
			continue
		}
		if !f.Window.Contains(row.Date) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeSessionRepo) LastSessionDate(_ context.Context, personID uuid.UUID, _ session.ParticipationRole) (*time.Time, error) {
	t, ok := r.lastLed[personID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// fakeCriteriaStore is an in-memory criteria.Store.
type fakeCriteriaStore struct {
	set []*criteria.Criteria
}

func (s *fakeCriteriaStore) ListCriteria(context.Context) ([]*criteria.Criteria, error) {
	return s.set, nil
}

func (s *fakeCriteriaStore) CreateCriteria(_ context.Context, c *criteria.Criteria) error {
	for _, existing := range s.set {
		if existing.Scope.Equal(c.Scope) {
			return shared.ErrConflict
		}
	}
	s.set = append(s.set, c)
	return nil
}

func leaderAt(name, region string) *person.Person {
	return &person.Person{
		ID:       uuid.New(),
		Username: name,
		Name:     name,
		Region:   region,
		Role:     person.RoleLeader,
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
