package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// Allocation represents an asset position inside a simulation
type Allocation struct {
	ID           string              `json:"id" db:"id"`
	SimulationID string              `json:"simulationId" db:"simulation_id"`
	Category     types.AssetCategory `json:"category" db:"category"`
	Name         string              `json:"name" db:"name"`
	NominalValue *decimal.Decimal    `json:"nominalValue,omitempty" db:"nominal_value"`
	CreatedAt    time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" db:"updated_at"`
}

// AssetRecord represents a dated valuation of an allocation.
// Records are returned ordered by (record_date, created_at) ascending so
// insertion order is preserved within a date.
type AssetRecord struct {
	ID           string          `json:"id" db:"id"`
	AllocationID string          `json:"allocationId" db:"allocation_id"`
	RecordDate   types.Date      `json:"recordDate" db:"record_date"`
	Value        decimal.Decimal `json:"value" db:"value"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}
