package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment types a pricing rule may carry.  Only AdjustmentFixed is
// currently evaluated by the price calculator; percentage and date-scoped
// rules are stored in full but priced at zero.  That gap is deliberate and
// must not be closed without product sign-off.
const (
	AdjustmentFixed      = "fixed"
	AdjustmentPercentage = "percentage"
)

// PricingRule is a named price adjustment attached to a space.  The
// applicability columns (rule type, day-of-week, validity window, lead time)
// are data-model-complete so operators can seed them today, even though the
// calculator does not evaluate them yet.
type PricingRule struct {
	UUID            string          `json:"uuid"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	RuleType        string          `json:"rule_type"`
	DaysBeforeMin   *int            `json:"days_before_min,omitempty"`
	DaysBeforeMax   *int            `json:"days_before_max,omitempty"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	AdjustmentType  string          `json:"adjustment_type"`
	ApplicableDays  []string        `json:"applicable_days,omitempty"`
	ValidFrom       *string         `json:"valid_from,omitempty"`
	ValidUntil      *string         `json:"valid_until,omitempty"`
	Priority        int             `json:"priority"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
