package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// Movement represents a planned cash flow inside a simulation.
// EndDate is required unless the recurrence is UNIQUE; when present it must
// not precede StartDate.
type Movement struct {
	ID           string                  `json:"id" db:"id"`
	SimulationID string                  `json:"simulationId" db:"simulation_id"`
	Direction    types.MovementDirection `json:"direction" db:"direction"`
	Description  string                  `json:"description" db:"description"`
	Amount       decimal.Decimal         `json:"amount" db:"amount"`
	Recurrence   types.Recurrence        `json:"recurrence" db:"recurrence"`
	StartDate    types.Date              `json:"startDate" db:"start_date"`
	EndDate      *types.Date             `json:"endDate,omitempty" db:"end_date"`
	CreatedAt    time.Time               `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time               `json:"updatedAt" db:"updated_at"`
}
