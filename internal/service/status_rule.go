package service

import (
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/types"
)

var (
	half         = decimal.NewFromFloat(0.5)
	tenthPerYear = decimal.NewFromFloat(0.1)
)

// StatusRule advances the insured total by one year according to the
// client's life status. yearIndex counts projection steps from zero.
type StatusRule interface {
	NextInsurance(prev decimal.Decimal, yearIndex int, annualRealRate decimal.Decimal) decimal.Decimal
}

// RuleForStatus returns the insurance evolution rule for a life status
func RuleForStatus(status types.LifeStatus) StatusRule {
	switch status {
	case types.StatusDeceased:
		return deceasedRule{}
	case types.StatusDisabled:
		return disabledRule{}
	default:
		return aliveRule{}
	}
}

// aliveRule grows the insured total at half the real rate every year
type aliveRule struct{}

func (aliveRule) NextInsurance(prev decimal.Decimal, yearIndex int, annualRealRate decimal.Decimal) decimal.Decimal {
	return prev.Mul(decimal.New(1, 0).Add(annualRealRate.Mul(half)))
}

// deceasedRule halves the insured total in the first projection year and
// keeps it flat afterwards
type deceasedRule struct{}

func (deceasedRule) NextInsurance(prev decimal.Decimal, yearIndex int, annualRealRate decimal.Decimal) decimal.Decimal {
	if yearIndex == 0 {
		next := prev.Mul(half)
		if next.IsNegative() {
			return decimal.Zero
		}
		return next
	}
	return prev
}

// disabledRule matches aliveRule for the first five years, then applies a
// shrinking factor to each grown step: 90% at year index 5, 80% at index 6,
// and so on until the factor reaches zero at index 14.
type disabledRule struct{}

func (disabledRule) NextInsurance(prev decimal.Decimal, yearIndex int, annualRealRate decimal.Decimal) decimal.Decimal {
	grown := aliveRule{}.NextInsurance(prev, yearIndex, annualRealRate)
	if yearIndex < 5 {
		return grown
	}

	factor := decimal.New(1, 0).Sub(decimal.NewFromInt(int64(yearIndex - 4)).Mul(tenthPerYear))
	if factor.IsNegative() {
		factor = decimal.Zero
	}
	return grown.Mul(factor)
}
