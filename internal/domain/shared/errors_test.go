package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ReasonCode
	}{
		{"not found", NewDomainError("stats", "ComputeStats", ErrNotFound, "unknown person"), ReasonNotFound},
		{"invalid argument", NewDomainError("leaderboard", "Validate", ErrInvalidArgument, "bad limit"), ReasonInvalidArgument},
		{"invalid range", NewDomainError("stats", "Validate", ErrInvalidRange, "from after to"), ReasonInvalidRange},
		{"conflict", NewDomainError("criteria", "CreateCriteria", ErrConflict, "duplicate scope"), ReasonConflict},
		{"conflicting criteria", NewDomainError("criteria", "Resolve", ErrConflictingCriteria, "duplicate records"), ReasonConflictingCriteria},
		{"unknown", errors.New("boom"), ReasonInternal},
		{"nil kind", &DomainError{Domain: "stats", Op: "x", Message: "opaque"}, ReasonInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}

// ErrConflictingCriteria wraps nothing but must never be reported as a
// plain conflict.
func TestReason_ConflictingCriteriaBeforeConflict(t *testing.T) {
	err := WrapError("criteria", "Resolve", ErrConflictingCriteria, "two records share a scope", ErrConflict)
	assert.Equal(t, ReasonConflictingCriteria, Reason(err))
}

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("criteria", "Resolve", ErrConflictingCriteria, "two records share a scope")
	assert.Equal(t, "criteria.Resolve: two records share a scope", err.Error())

	wrapped := WrapError("stats", "ComputeStats", ErrNotFound, "person lookup failed", errors.New("no rows"))
	assert.Equal(t, "stats.ComputeStats: person lookup failed: no rows", wrapped.Error())
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	inner := errors.New("pq: duplicate key")
	err := WrapError("criteria", "CreateCriteria", ErrConflict, "scope already exists", inner)

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, inner))
	assert.False(t, errors.Is(err, ErrNotFound))
	require.NotNil(t, errors.Unwrap(err))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewDomainError("stats", "FindPerson", ErrNotFound, "gone")))
	assert.True(t, IsConflict(NewDomainError("criteria", "Create", ErrConflict, "dup")))
	assert.True(t, IsInvalid(NewDomainError("stats", "Validate", ErrInvalidRange, "bad window")))
	assert.True(t, IsInvalid(NewDomainError("stats", "Validate", ErrInvalidArgument, "bad limit")))
	assert.False(t, IsInvalid(errors.New("other")))
}
