package service

import (
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

// ResolveInitialValue picks the starting value of a single asset as of the
// simulation start date.
//
// Only records dated strictly before asOf qualify; a record dated exactly on
// the start date is excluded. Among qualifying records the latest date wins,
// and when two records share that date the one with the highest insertion
// index wins. Without any qualifying record the nominal value is used, and
// with no nominal value either the asset starts at zero. This function never
// fails.
func ResolveInitialValue(records []ValuationRecord, nominalValue *decimal.Decimal, asOf types.Date) decimal.Decimal {
	found := false
	var best ValuationRecord

	for _, r := range records {
		if !r.Date.Before(asOf) {
			continue
		}
		// >= keeps the later insertion on date ties
		if !found || !r.Date.Before(best.Date) {
			best = r
			found = true
		}
	}

	if found {
		return best.Value
	}
	if nominalValue != nil {
		return *nominalValue
	}
	return decimal.Zero
}

// StartingTotals resolves every asset and sums the results per category
func StartingTotals(assets []AssetSnapshot, asOf types.Date) (financial, realEstate decimal.Decimal) {
	financial = decimal.Zero
	realEstate = decimal.Zero

	for _, a := range assets {
		value := ResolveInitialValue(a.ValuationHistory, a.NominalValue, asOf)
		switch a.Category {
		case types.CategoryFinancial:
			financial = financial.Add(value)
		case types.CategoryRealEstate:
			realEstate = realEstate.Add(value)
		}
	}
	return financial, realEstate
}

// StartingInsurance sums the insured values of all policies
func StartingInsurance(policies []PolicySnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, p := range policies {
		total = total.Add(p.InsuredValue)
	}
	return total
}
