package criteria

import (
	"fmt"

	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// Resolve picks the criteria record applicable to a person with the given
// region and role from the full criteria set. The most specific matching
// scope wins. Returns nil when nothing matches.
//
// Two matching records at the same specificity necessarily share the exact
// same scope values, so the set is ambiguous; resolution fails with
// ErrConflictingCriteria instead of picking one arbitrarily.
func Resolve(region string, role person.Role, set []*Criteria) (*Criteria, error) {
	var best *Criteria
	bestSpec := -1
	conflict := false

	for _, c := range set {
		if c == nil || !c.Scope.Matches(region, role) {
			continue
		}
		spec := c.Scope.Specificity()
		switch {
		case spec > bestSpec:
			best, bestSpec, conflict = c, spec, false
		case spec == bestSpec:
			conflict = true
		}
	}

	if conflict {
		return nil, shared.NewDomainError("criteria", "Resolve", shared.ErrConflictingCriteria,
			fmt.Sprintf("multiple criteria with identical scope match region=%q role=%q", region, role))
	}
	return best, nil
}
