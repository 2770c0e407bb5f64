package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// Simulation represents a financial plan scenario for a client.
// RealRate is the plan's assumed annual real return, stored for presentation
// and duplication; each projection request carries its own explicit rate.
type Simulation struct {
	ID        string          `json:"id" db:"id"`
	ClientID  string          `json:"clientId" db:"client_id"`
	Name      string          `json:"name" db:"name"`
	StartDate types.Date      `json:"startDate" db:"start_date"`
	RealRate  decimal.Decimal `json:"realRate" db:"real_rate"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
