package models

import (
	"time"

	"github.com/wealth-planner/internal/types"
)

// ProjectionRun is an append-only audit record of a projection execution,
// stored in ClickHouse
type ProjectionRun struct {
	SimulationID     string           `json:"simulationId" db:"simulation_id"`
	LifeStatus       types.LifeStatus `json:"lifeStatus" db:"life_status"`
	AnnualRealRate   float64          `json:"annualRealRate" db:"annual_real_rate"`
	HorizonYears     int              `json:"horizonYears" db:"horizon_years"`
	IncludeInsurance bool             `json:"includeInsurance" db:"include_insurance"`
	FinalTotal       float64          `json:"finalTotal" db:"final_total"`
	DurationMs       int64            `json:"durationMs" db:"duration_ms"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}
