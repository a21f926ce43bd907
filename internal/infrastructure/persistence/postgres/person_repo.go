package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERSON REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// PersonRepository is the PostgreSQL implementation of person.Repository.
type PersonRepository struct {
	conn *Connection
}

// NewPersonRepository creates a new person repository.
func NewPersonRepository(conn *Connection) *PersonRepository {
	return &PersonRepository{conn: conn}
}

var _ person.Repository = (*PersonRepository)(nil)

// FindPerson loads one person by id.
func (r *PersonRepository) FindPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	const query = `
		SELECT id, username, name, region, role, created_at
		FROM people
		WHERE id = $1
	`

	var p person.Person
	var role string
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.Name, &p.Region, &role, &p.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.WrapError("postgres", "FindPerson", shared.ErrNotFound,
				fmt.Sprintf("person %s not found", id), err)
		}
		return nil, fmt.Errorf("postgres: find person: %w", err)
	}
	p.Role = person.Role(role)

	return &p, nil
}

// ListLeaders loads every person with the leader role, ordered by name.
// An empty region matches all regions.
func (r *PersonRepository) ListLeaders(ctx context.Context, region string) ([]*person.Person, error) {
	const query = `
		SELECT id, username, name, region, role, created_at
		FROM people
		WHERE role = $1
		  AND ($2 = '' OR region = $2)
		ORDER BY name, id
	`

	rows, err := r.conn.Query(ctx, query, person.RoleLeader.String(), region)
	if err != nil {
		return nil, fmt.Errorf("postgres: list leaders: %w", err)
	}
	defer rows.Close()

	var leaders []*person.Person
	for rows.Next() {
		var p person.Person
		var role string
		if err := rows.Scan(&p.ID, &p.Username, &p.Name, &p.Region, &role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan leader: %w", err)
		}
		p.Role = person.Role(role)
		leaders = append(leaders, &p)
	}

	return leaders, rows.Err()
}
