// Package command contains write operations following CQRS pattern.
// Each command validates its input, mutates state through a domain store,
// and emits an audit fact on success.
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/domain/audit"
	"github.com/vedantpareek96/il-management/internal/domain/criteria"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE CRITERIA COMMAND
// Creates one criteria record. At most one record may exist per exact
// scope; the store enforces this, so under concurrent creation of the same
// scope exactly one command succeeds and the rest fail with a conflict.
// ══════════════════════════════════════════════════════════════════════════════

// CreateCriteriaCommand holds the input of a criteria creation.
type CreateCriteriaCommand struct {
	// ActorID identifies who is creating the record.
	ActorID uuid.UUID

	// Region is the scope region, nil for all regions.
	Region *string

	// Role is the scope role, nil for all roles.
	Role *person.Role

	// TargetGuests is the guest target, nil when undefined.
	TargetGuests *int

	// TargetRegistrations is the registration target, nil when undefined.
	TargetRegistrations *int

	// TargetEffectiveness is the effectiveness target, nil when undefined.
	TargetEffectiveness *float64
}

// Validate checks the command input.
func (c *CreateCriteriaCommand) Validate() error {
	if c.ActorID == uuid.Nil {
		return shared.NewDomainError("command", "CreateCriteria", shared.ErrInvalidArgument, "actor id is required")
	}
	return nil
}

// CreateCriteriaResult is the response of a criteria creation.
type CreateCriteriaResult struct {
	// CriteriaID identifies the created record.
	CriteriaID string `json:"criteria_id"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// CreateCriteriaHandler serves criteria creations.
type CreateCriteriaHandler struct {
	store criteria.Store
	sink  audit.Sink
	now   func() time.Time
}

// NewCreateCriteriaHandler builds a criteria creation handler. A nil sink
// disables auditing.
func NewCreateCriteriaHandler(store criteria.Store, sink audit.Sink, now func() time.Time) *CreateCriteriaHandler {
	if sink == nil {
		sink = audit.NopSink{}
	}
	if now == nil {
		now = time.Now
	}
	return &CreateCriteriaHandler{store: store, sink: sink, now: now}
}

// Handle creates the criteria record.
func (h *CreateCriteriaHandler) Handle(ctx context.Context, cmd CreateCriteriaCommand) (*CreateCriteriaResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	record, err := criteria.New(
		uuid.New(),
		criteria.Scope{Region: cmd.Region, Role: cmd.Role},
		criteria.Targets{
			Guests:        cmd.TargetGuests,
			Registrations: cmd.TargetRegistrations,
			Effectiveness: cmd.TargetEffectiveness,
		},
		h.now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err := h.store.CreateCriteria(ctx, record); err != nil {
		if shared.IsConflict(err) {
			return nil, shared.WrapError("command", "CreateCriteria", shared.ErrConflict,
				"criteria with this scope already exists", err)
		}
		return nil, shared.WrapError("command", "CreateCriteria", err, "failed to create criteria", err)
	}

	h.sink.Emit(ctx, audit.Fact{
		Actor:    cmd.ActorID,
		Action:   "criteria_created",
		Entity:   "criteria",
		EntityID: record.ID,
		At:       record.CreatedAt,
		Payload:  auditPayload(record),
	})

	return &CreateCriteriaResult{
		CriteriaID: record.ID.String(),
		CreatedAt:  record.CreatedAt,
	}, nil
}

func auditPayload(c *criteria.Criteria) map[string]any {
	p := map[string]any{"specificity": c.Scope.Specificity()}
	if c.Scope.Region != nil {
		p["region"] = *c.Scope.Region
	}
	if c.Scope.Role != nil {
		p["role"] = c.Scope.Role.String()
	}
	if c.Targets.Guests != nil {
		p["target_guests"] = *c.Targets.Guests
	}
	if c.Targets.Registrations != nil {
		p["target_registrations"] = *c.Targets.Registrations
	}
	if c.Targets.Effectiveness != nil {
		p["target_effectiveness"] = *c.Targets.Effectiveness
	}
	return p
}
