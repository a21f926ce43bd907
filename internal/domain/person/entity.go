// Package person contains the person domain model: identity, organization
// role and region. People are created by the signup flow outside this core;
// the core only reads them.
package person

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// Role is a person's organization role.
type Role string

const (
	RoleLeader Role = "leader"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// IsValid checks whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleLeader, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation.
func (r Role) String() string { return string(r) }

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("person", "ParseRole", shared.ErrInvalidArgument, "unknown role: "+s)
	}
	return r, nil
}

// Person is an organization member. Identity is immutable; role and region
// change only through admin action, which is outside this core.
type Person struct {
	ID        uuid.UUID
	Username  string
	Name      string
	Region    string
	Role      Role
	CreatedAt time.Time
}

// IsLeader reports whether the person leads sessions.
func (p *Person) IsLeader() bool {
	return p.Role == RoleLeader
}

// Repository is the read contract for people. Implementations live in the
// infrastructure layer.
type Repository interface {
	// FindPerson returns the person with the given id, or
	// shared.ErrNotFound.
	FindPerson(ctx context.Context, id uuid.UUID) (*Person, error)

	// ListLeaders returns all people with role=leader, optionally filtered
	// by region (empty string = all regions), ordered by name.
	ListLeaders(ctx context.Context, region string) ([]*Person, error)
}
