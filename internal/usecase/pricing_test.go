package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kamuxx/reservas-api/internal/model"
)

func fixedRule(adjustment string) *model.PricingRule {
	return &model.PricingRule{
		UUID:            "rule-1",
		Name:            "hourly",
		RuleType:        "base",
		PriceAdjustment: decimal.RequireFromString(adjustment),
		AdjustmentType:  model.AdjustmentFixed,
		IsActive:        true,
	}
}

func TestCalculatePriceFixed(t *testing.T) {
	cases := []struct {
		name       string
		adjustment string
		start, end string
		want       string
	}{
		{"two hours", "50", "10:00", "12:00", "100"},
		{"ninety minutes", "50", "10:00", "11:30", "75"},
		{"fractional rate", "12.50", "09:00", "13:00", "50"},
		{"zero duration", "50", "10:00", "10:00", "0"},
		{"full day", "10", "00:00", "24:00", "240"},
		{"reversed interval uses absolute duration", "50", "12:00", "10:00", "100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculatePrice(fixedRule(tc.adjustment), tc.start, tc.end)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("CalculatePrice(%s, %s, %s) = %s, want %s",
					tc.adjustment, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestCalculatePriceZeroFallbacks(t *testing.T) {
	if got := CalculatePrice(nil, "10:00", "12:00"); !got.IsZero() {
		t.Errorf("nil rule priced at %s, want 0", got)
	}

	pct := fixedRule("50")
	pct.AdjustmentType = model.AdjustmentPercentage
	if got := CalculatePrice(pct, "10:00", "12:00"); !got.IsZero() {
		t.Errorf("percentage rule priced at %s, want 0", got)
	}

	if got := CalculatePrice(fixedRule("50"), "bad", "12:00"); !got.IsZero() {
		t.Errorf("malformed start priced at %s, want 0", got)
	}
	if got := CalculatePrice(fixedRule("50"), "10:00", ""); !got.IsZero() {
		t.Errorf("malformed end priced at %s, want 0", got)
	}
}
