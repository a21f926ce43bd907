package criteria

import "context"

// Store provides the full criteria set for resolution and accepts new
// records. Resolution always reads the complete set; the set is small by
// construction (one record per distinct scope).
type Store interface {
	// ListCriteria returns every criteria record.
	ListCriteria(ctx context.Context) ([]*Criteria, error)

	// CreateCriteria persists a new record. Returns shared.ErrConflict
	// when a record with the exact same scope already exists; under
	// concurrent creation of the same scope exactly one call succeeds.
	CreateCriteria(ctx context.Context, c *Criteria) error
}
