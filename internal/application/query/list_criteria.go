package query

import (
	"context"
	"time"

	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CRITERIA QUERY
// ══════════════════════════════════════════════════════════════════════════════

// CriteriaDTO is one criteria record.
type CriteriaDTO struct {
	// CriteriaID identifies the record.
	CriteriaID string `json:"criteria_id"`

	// Region is the scope region, empty when the scope covers all regions.
	Region string `json:"region,omitempty"`

	// Role is the scope role, empty when the scope covers all roles.
	Role string `json:"role,omitempty"`

	// Specificity ranks how narrow the scope is (0 global .. 3 region+role).
	Specificity int `json:"specificity"`

	// TargetGuests is the guest target, nil when undefined.
	TargetGuests *int `json:"target_guests,omitempty"`

	// TargetRegistrations is the registration target, nil when undefined.
	TargetRegistrations *int `json:"target_registrations,omitempty"`

	// TargetEffectiveness is the effectiveness target, nil when undefined.
	TargetEffectiveness *float64 `json:"target_effectiveness,omitempty"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// ListCriteriaResult is the response of a criteria listing.
type ListCriteriaResult struct {
	Criteria    []CriteriaDTO `json:"criteria"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ListCriteriaHandler serves criteria listings.
type ListCriteriaHandler struct {
	store criteria.Store
	now   func() time.Time
}

// NewListCriteriaHandler builds a criteria listing handler.
func NewListCriteriaHandler(store criteria.Store, now func() time.Time) *ListCriteriaHandler {
	if now == nil {
		now = time.Now
	}
	return &ListCriteriaHandler{store: store, now: now}
}

// Handle lists every criteria record.
func (h *ListCriteriaHandler) Handle(ctx context.Context) (*ListCriteriaResult, error) {
	set, err := h.store.ListCriteria(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListCriteria", err, "failed to load criteria", err)
	}

	dtos := make([]CriteriaDTO, len(set))
	for i, c := range set {
		dto := CriteriaDTO{
			CriteriaID:          c.ID.String(),
			Specificity:         c.Scope.Specificity(),
			TargetGuests:        c.Targets.Guests,
			TargetRegistrations: c.Targets.Registrations,
			TargetEffectiveness: c.Targets.Effectiveness,
			CreatedAt:           c.CreatedAt,
		}
		if c.Scope.Region != nil {
			dto.Region = *c.Scope.Region
		}
		if c.Scope.Role != nil {
			dto.Role = c.Scope.Role.String()
		}
		dtos[i] = dto
	}

	return &ListCriteriaResult{Criteria: dtos, GeneratedAt: h.now().UTC()}, nil
}
