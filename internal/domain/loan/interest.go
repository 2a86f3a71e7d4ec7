package loan

import (
	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(360)
)

// EffectiveRate clamps the reference rate between floor and ceiling (each
// optional) and adds the margin. All values are annual percentages.
func EffectiveRate(reference, margin decimal.Decimal, floor, ceiling *decimal.Decimal) decimal.Decimal {
	adjusted := reference
	if floor != nil && adjusted.LessThan(*floor) {
		adjusted = *floor
	}
	if ceiling != nil && adjusted.GreaterThan(*ceiling) {
		adjusted = *ceiling
	}
	return adjusted.Add(margin)
}

// PeriodInterest computes actual/360 accrued interest:
// principal x (rate/100) x (days/360). No rounding happens here; currency
// amounts round to two places only at reporting time.
func PeriodInterest(principal, annualRatePercent decimal.Decimal, days int) decimal.Decimal {
	return principal.
		Mul(annualRatePercent).
		Mul(decimal.NewFromInt(int64(days))).
		Div(hundred.Mul(daysPerYear))
}
