package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(uuid.New(), 10, 4, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 10, m.Guests)
	assert.Equal(t, 4, m.Registrations)
	assert.InDelta(t, 0.4, m.Effectiveness(), 0.0001)
}

func TestNewMetrics_RejectsNegativeCounts(t *testing.T) {
	_, err := NewMetrics(uuid.New(), -1, 0, uuid.New(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))

	_, err = NewMetrics(uuid.New(), 5, -1, uuid.New(), time.Now())
	assert.Error(t, err)
}

func TestNewMetrics_RejectsRegistrationsAboveGuests(t *testing.T) {
	_, err := NewMetrics(uuid.New(), 3, 4, uuid.New(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestMetrics_EffectivenessZeroGuests(t *testing.T) {
	m, err := NewMetrics(uuid.New(), 0, 0, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Effectiveness())
}

func TestParseParticipationRole(t *testing.T) {
	r, err := ParseParticipationRole(" leader ")
	require.NoError(t, err)
	assert.Equal(t, ParticipationLeader, r)

	_, err = ParseParticipationRole("greeter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
}

func TestParticipationWithMetrics_Effectiveness(t *testing.T) {
	row := ParticipationWithMetrics{Guests: 8, Registrations: 4}
	assert.InDelta(t, 0.5, row.Effectiveness(), 0.0001)

	empty := ParticipationWithMetrics{}
	assert.Equal(t, 0.0, empty.Effectiveness())
}
