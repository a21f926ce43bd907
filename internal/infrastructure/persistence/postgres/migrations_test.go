package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMigrations_SequentialAndReversible(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs)
	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
	}
}

// A person can hold different roles in the same session; only the exact
// (session, person, role) triple is unique.
func TestMigrations_ParticipationUniquenessIncludesRole(t *testing.T) {
	assert.Contains(t, migration002Up, "UNIQUE (session_id, person_id, role)")
}

func TestMigrations_CriteriaScopeUniquenessFoldsNulls(t *testing.T) {
	assert.Contains(t, migration003Up, `COALESCE(region, ''), COALESCE(role, '')`)
}
