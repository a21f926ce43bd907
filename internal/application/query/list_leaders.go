package query

import (
	"context"
	"time"

	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST LEADERS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListLeadersQuery holds the parameters of a leaders listing.
type ListLeadersQuery struct {
	// Region restricts the listing to one region (empty = all).
	Region string
}

// LeaderDTO is one listed leader.
type LeaderDTO struct {
	PersonID string `json:"person_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Region   string `json:"region"`
}

// ListLeadersResult is the response of a leaders listing.
type ListLeadersResult struct {
	Leaders     []LeaderDTO `json:"leaders"`
	Region      string      `json:"region,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ListLeadersHandler serves leader listings.
type ListLeadersHandler struct {
	people person.Repository
	now    func() time.Time
}

// NewListLeadersHandler builds a leaders listing handler.
func NewListLeadersHandler(people person.Repository, now func() time.Time) *ListLeadersHandler {
	if now == nil {
		now = time.Now
	}
	return &ListLeadersHandler{people: people, now: now}
}

// Handle lists the leaders, ordered by name.
func (h *ListLeadersHandler) Handle(ctx context.Context, query ListLeadersQuery) (*ListLeadersResult, error) {
	leaders, err := h.people.ListLeaders(ctx, query.Region)
	if err != nil {
		return nil, shared.WrapError("query", "ListLeaders", err, "failed to load leaders", err)
	}

	dtos := make([]LeaderDTO, len(leaders))
	for i, p := range leaders {
		dtos[i] = LeaderDTO{
			PersonID: p.ID.String(),
			Username: p.Username,
			Name:     p.Name,
			Region:   p.Region,
		}
	}

	return &ListLeadersResult{
		Leaders:     dtos,
		Region:      query.Region,
		GeneratedAt: h.now().UTC(),
	}, nil
}
