// Package service implements the wealth planner's business logic: plan CRUD,
// the pure projection engine, and timeline expansion.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// SnapshotProvider loads the full read-only plan snapshot for a simulation.
// Implementations return a SIMULATION_NOT_FOUND service error when the
// simulation does not exist.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, simulationID string) (*PlanSnapshot, error)
}

// PlanSnapshot is the engine's complete view of a simulation, assembled per
// call and never mutated by the engine.
type PlanSnapshot struct {
	Simulation *models.Simulation  `json:"simulation"`
	Assets     []AssetSnapshot     `json:"assets"`
	Movements  []RecurringMovement `json:"movements"`
	Policies   []PolicySnapshot    `json:"policies"`
}

// ValuationRecord is one dated valuation inside an asset's history.
// Histories are ordered by (date, insertion) ascending.
type ValuationRecord struct {
	Date  types.Date      `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// AssetSnapshot is the engine-facing view of an allocation
type AssetSnapshot struct {
	Category         types.AssetCategory `json:"category"`
	NominalValue     *decimal.Decimal    `json:"nominalValue,omitempty"`
	ValuationHistory []ValuationRecord   `json:"valuationHistory"`
}

// RecurringMovement is the engine-facing view of a movement
type RecurringMovement struct {
	ID          string                  `json:"id"`
	Direction   types.MovementDirection `json:"direction"`
	Description string                  `json:"description"`
	Amount      decimal.Decimal         `json:"amount"`
	Recurrence  types.Recurrence        `json:"recurrence"`
	StartDate   types.Date              `json:"startDate"`
	EndDate     *types.Date             `json:"endDate,omitempty"`
}

// PolicySnapshot is the engine-facing view of an insurance policy.
// Only the insured value participates in projections.
type PolicySnapshot struct {
	InsuredValue decimal.Decimal `json:"insuredValue"`
}
