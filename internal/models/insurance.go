package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// InsurancePolicy represents a life insurance policy attached to a simulation.
// The projection engine consumes only InsuredValue; premium and duration are
// plan bookkeeping.
type InsurancePolicy struct {
	ID             string          `json:"id" db:"id"`
	SimulationID   string          `json:"simulationId" db:"simulation_id"`
	Name           string          `json:"name" db:"name"`
	InsuredValue   decimal.Decimal `json:"insuredValue" db:"insured_value"`
	MonthlyPremium decimal.Decimal `json:"monthlyPremium" db:"monthly_premium"`
	StartDate      types.Date      `json:"startDate" db:"start_date"`
	DurationMonths int             `json:"durationMonths" db:"duration_months"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}
