package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// realEstateRateFactor damps the real rate for real-estate compounding:
// real estate grows at 80% of the financial rate.
var realEstateRateFactor = decimal.NewFromFloat(0.8)

// MaxHorizonYears bounds the projection horizon
const MaxHorizonYears = 100

// ProjectionParameters are the caller-supplied inputs of a projection run
type ProjectionParameters struct {
	SimulationID     string           `json:"simulationId"`
	LifeStatus       types.LifeStatus `json:"lifeStatus"`
	AnnualRealRate   float64          `json:"annualRealRate"`
	HorizonYears     int              `json:"horizonYears"`
	IncludeInsurance bool             `json:"includeInsurance"`
}

// ProjectionResult holds the projected wealth per year. The five sequences
// are parallel and all have length HorizonYears; the starting values are not
// part of the output. WithoutInsurance is present only when the run included
// insurance in the totals.
type ProjectionResult struct {
	SimulationID     string            `json:"simulationId"`
	Years            []int             `json:"years"`
	Financial        []float64         `json:"financial"`
	RealEstate       []float64         `json:"realEstate"`
	Insurance        []float64         `json:"insurance"`
	Total            []float64         `json:"total"`
	WithoutInsurance *WithoutInsurance `json:"withoutInsurance,omitempty"`
}

// WithoutInsurance is the comparison projection that keeps insurance out of
// the totals
type WithoutInsurance struct {
	Financial  []float64 `json:"financial"`
	RealEstate []float64 `json:"realEstate"`
	Total      []float64 `json:"total"`
}

// ValidateProjectionParameters checks the parameter ranges. It runs before
// any I/O so an invalid request never touches storage.
func ValidateProjectionParameters(params *ProjectionParameters) *types.ServiceError {
	if !params.LifeStatus.Valid() {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: fmt.Sprintf("unknown life status: %s", params.LifeStatus),
			Details: map[string]interface{}{"field": "lifeStatus"},
		}
	}

	if math.IsNaN(params.AnnualRealRate) || math.IsInf(params.AnnualRealRate, 0) || params.AnnualRealRate < 0 {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: "annualRealRate must be a finite number >= 0",
			Details: map[string]interface{}{"field": "annualRealRate"},
		}
	}

	if params.HorizonYears < 1 || params.HorizonYears > MaxHorizonYears {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: fmt.Sprintf("horizonYears must be between 1 and %d", MaxHorizonYears),
			Details: map[string]interface{}{"field": "horizonYears"},
		}
	}

	return nil
}

// ProjectionEngine compounds a plan snapshot over the requested horizon.
// It is a pure function of its inputs: no I/O, no mutation of the snapshot,
// and identical inputs produce bit-identical results, so concurrent calls
// are safe.
type ProjectionEngine struct{}

// NewProjectionEngine creates a projection engine
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{}
}

// Project runs one projection. Starting totals come from the resolver as of
// the simulation start date; each year financial wealth compounds at the
// full rate, real estate at 80% of it, and insurance follows the status
// rule. Year labels begin the year after the simulation start, and the
// starting values themselves are dropped from the output.
func (e *ProjectionEngine) Project(params *ProjectionParameters, snapshot *PlanSnapshot) (*ProjectionResult, error) {
	if serr := ValidateProjectionParameters(params); serr != nil {
		return nil, serr
	}

	rate := decimal.NewFromFloat(params.AnnualRealRate)
	growFinancial := decimal.New(1, 0).Add(rate)
	growRealEstate := decimal.New(1, 0).Add(rate.Mul(realEstateRateFactor))
	rule := RuleForStatus(params.LifeStatus)

	asOf := snapshot.Simulation.StartDate
	financial, realEstate := StartingTotals(snapshot.Assets, asOf)
	insurance := StartingInsurance(snapshot.Policies)

	startYear := asOf.Year()
	n := params.HorizonYears

	result := &ProjectionResult{
		SimulationID: params.SimulationID,
		Years:        make([]int, n),
		Financial:    make([]float64, n),
		RealEstate:   make([]float64, n),
		Insurance:    make([]float64, n),
		Total:        make([]float64, n),
	}
	if params.IncludeInsurance {
		result.WithoutInsurance = &WithoutInsurance{
			Financial:  make([]float64, n),
			RealEstate: make([]float64, n),
			Total:      make([]float64, n),
		}
	}

	for i := 0; i < n; i++ {
		financial = financial.Mul(growFinancial)
		realEstate = realEstate.Mul(growRealEstate)
		insurance = rule.NextInsurance(insurance, i, rate)

		year := startYear + i + 1

		finValue, err := finiteValue(financial, "financial", year)
		if err != nil {
			return nil, err
		}
		reValue, err := finiteValue(realEstate, "realEstate", year)
		if err != nil {
			return nil, err
		}
		insValue, err := finiteValue(insurance, "insurance", year)
		if err != nil {
			return nil, err
		}

		// Totals are summed on the emitted values so the reported identity
		// total == financial + realEstate (+ insurance) holds exactly.
		total := finValue + reValue
		if params.IncludeInsurance {
			total += insValue
		}
		if math.IsInf(total, 0) {
			return nil, nonFiniteError("total", year)
		}

		result.Years[i] = year
		result.Financial[i] = finValue
		result.RealEstate[i] = reValue
		result.Insurance[i] = insValue
		result.Total[i] = total

		if result.WithoutInsurance != nil {
			result.WithoutInsurance.Financial[i] = finValue
			result.WithoutInsurance.RealEstate[i] = reValue
			result.WithoutInsurance.Total[i] = finValue + reValue
		}
	}

	return result, nil
}

// finiteValue converts a computed decimal for output, rejecting values the
// wire format cannot represent
func finiteValue(d decimal.Decimal, field string, year int) (float64, error) {
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, nonFiniteError(field, year)
	}
	return f, nil
}

func nonFiniteError(field string, year int) *types.ServiceError {
	return &types.ServiceError{
		Code:    "COMPUTATION_ERROR",
		Message: fmt.Sprintf("projection produced a non-finite %s value for year %d", field, year),
		Details: map[string]interface{}{"field": field, "year": year},
	}
}
