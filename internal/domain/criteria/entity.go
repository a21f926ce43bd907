// Package criteria contains target definitions and the scope-specificity
// resolution rules. A criteria record carries per-metric targets and is
// scoped to a (region, role) combination; the most specific scope matching
// a person wins.
package criteria

import (
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// Targets holds the per-metric targets of one criteria record. A nil field
// means no target for that metric - distinguishable from a target of zero.
type Targets struct {
	// Guests is the target total guest count.
	Guests *int

	// Registrations is the target total registration count.
	Registrations *int

	// Effectiveness is the target registrations/guests ratio in [0, 1].
	Effectiveness *float64
}

// IsEmpty reports whether no target is defined.
func (t Targets) IsEmpty() bool {
	return t.Guests == nil && t.Registrations == nil && t.Effectiveness == nil
}

// Validate checks target value ranges.
func (t Targets) Validate() error {
	if t.IsEmpty() {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "at least one target must be set")
	}
	if t.Guests != nil && *t.Guests < 0 {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "guests target must be non-negative")
	}
	if t.Registrations != nil && *t.Registrations < 0 {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "registrations target must be non-negative")
	}
	if t.Effectiveness != nil && (*t.Effectiveness < 0 || *t.Effectiveness > 1) {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "effectiveness target must be in [0, 1]")
	}
	return nil
}

// Scope identifies which people a criteria record applies to. A nil field
// matches everyone on that dimension.
type Scope struct {
	Region *string
	Role   *person.Role
}

// GlobalScope returns the scope matching every person.
func GlobalScope() Scope { return Scope{} }

// Specificity ranks the scope: region+role (3) > region (2) > role (1) >
// global (0). Evaluated as data, not dispatch.
func (s Scope) Specificity() int {
	n := 0
	if s.Region != nil {
		n += 2
	}
	if s.Role != nil {
		n++
	}
	return n
}

// Matches reports whether the scope applies to a person with the given
// region and role.
func (s Scope) Matches(region string, role person.Role) bool {
	if s.Region != nil && *s.Region != region {
		return false
	}
	if s.Role != nil && *s.Role != role {
		return false
	}
	return true
}

// Equal reports whether two scopes are exactly the same.
func (s Scope) Equal(other Scope) bool {
	if (s.Region == nil) != (other.Region == nil) || (s.Role == nil) != (other.Role == nil) {
		return false
	}
	if s.Region != nil && *s.Region != *other.Region {
		return false
	}
	if s.Role != nil && *s.Role != *other.Role {
		return false
	}
	return true
}

// Validate checks scope value ranges.
func (s Scope) Validate() error {
	if s.Region != nil && *s.Region == "" {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "region scope cannot be empty")
	}
	if s.Role != nil && !s.Role.IsValid() {
		return shared.NewDomainError("criteria", "Validate", shared.ErrInvalidArgument, "unknown role in scope")
	}
	return nil
}

// Criteria is one target record.
type Criteria struct {
	ID        uuid.UUID
	Scope     Scope
	Targets   Targets
	CreatedAt time.Time
}

// New validates and builds a criteria record.
func New(id uuid.UUID, scope Scope, targets Targets, createdAt time.Time) (*Criteria, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	return &Criteria{ID: id, Scope: scope, Targets: targets, CreatedAt: createdAt}, nil
}
