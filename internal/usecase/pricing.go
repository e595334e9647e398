package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/kamuxx/reservas-api/internal/model"
)

// CalculatePrice computes a reservation's price from the space's pricing
// rule and the booked interval.  It is pure: no I/O, no side effects.
//
//   - A nil rule prices at zero (spaces without a rule are free to book).
//   - Duration is the absolute minute difference between start and end,
//     divided by 60; fractional hours are kept.
//   - Only the "fixed" adjustment type is evaluated: price = adjustment *
//     hours.  Every other adjustment type (percentage, seasonal, day-of-week,
//     lead-time) prices at zero for now.
//   - Malformed time strings also price at zero rather than erroring.
//
// Callers must not treat a non-zero price as proof of a valid rule: the
// zero fallbacks are silent. Existing seed data may rely on them, so they
// stay until product decides how the non-fixed rule types should price.
func CalculatePrice(rule *model.PricingRule, start, end string) decimal.Decimal {
	if rule == nil {
		return decimal.Zero
	}
	startSec, err := model.ClockSeconds(start)
	if err != nil {
		return decimal.Zero
	}
	endSec, err := model.ClockSeconds(end)
	if err != nil {
		return decimal.Zero
	}
	minutes := (endSec - startSec) / 60
	if minutes < 0 {
		minutes = -minutes
	}
	if rule.AdjustmentType == model.AdjustmentFixed {
		hours := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
		return rule.PriceAdjustment.Mul(hours)
	}
	return decimal.Zero
}
