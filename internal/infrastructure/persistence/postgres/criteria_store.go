package postgres

import (
	"context"
	"fmt"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CRITERIA STORE
// ══════════════════════════════════════════════════════════════════════════════

// CriteriaStore is the PostgreSQL implementation of criteria.Store. The
// unique index on the folded (region, role) pair makes creation atomic:
// concurrent creates for the same scope resolve to one winner.
type CriteriaStore struct {
	conn *Connection
}

// NewCriteriaStore creates a new criteria store.
func NewCriteriaStore(conn *Connection) *CriteriaStore {
	return &CriteriaStore{conn: conn}
}

var _ criteria.Store = (*CriteriaStore)(nil)

// ListCriteria loads every criteria record, most specific scope first.
func (s *CriteriaStore) ListCriteria(ctx context.Context) ([]*criteria.Criteria, error) {
	const query = `
		SELECT id, region, role, target_guests, target_registrations, target_effectiveness, created_at
		FROM criteria
		ORDER BY (region IS NOT NULL)::int * 2 + (role IS NOT NULL)::int DESC, created_at
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list criteria: %w", err)
	}
	defer rows.Close()

	var set []*criteria.Criteria
	for rows.Next() {
		var c criteria.Criteria
		var role *string
		if err := rows.Scan(
			&c.ID, &c.Scope.Region, &role,
			&c.Targets.Guests, &c.Targets.Registrations, &c.Targets.Effectiveness,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan criteria: %w", err)
		}
		if role != nil {
			r := person.Role(*role)
			c.Scope.Role = &r
		}
		set = append(set, &c)
	}

	return set, rows.Err()
}

// CreateCriteria persists a new criteria record. A scope collision maps to
// shared.ErrConflict.
func (s *CriteriaStore) CreateCriteria(ctx context.Context, c *criteria.Criteria) error {
	const query = `
		INSERT INTO criteria (id, region, role, target_guests, target_registrations, target_effectiveness, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var role *string
	if c.Scope.Role != nil {
		r := c.Scope.Role.String()
		role = &r
	}

	_, err := s.conn.Exec(ctx, query,
		c.ID, c.Scope.Region, role,
		c.Targets.Guests, c.Targets.Registrations, c.Targets.Effectiveness,
		c.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("postgres", "CreateCriteria", shared.ErrConflict,
				"criteria with this scope already exists", err)
		}
		return fmt.Errorf("postgres: create criteria: %w", err)
	}

	return nil
}
