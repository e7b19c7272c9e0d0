package pricing

import (
	"math"
	"time"

	"selfstore-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd formatted string into a time.Time.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDateRange
	}
	return t, nil
}

// DaysInclusive returns the day count between two yyyy-mm-dd dates with both
// ends included: floor((end-start)/24h) + 1. A same-day range is 1 day.
// Returns ErrInvalidDateRange when either date fails to parse or the count
// would be zero or negative.
func DaysInclusive(startDate, endDate string) (int32, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	days := int32(end.Sub(start).Hours()/24) + 1
	if days <= 0 {
		return 0, domain.ErrInvalidDateRange
	}
	return days, nil
}

// DynamicMultiplier implements demand-based pricing: the price rises linearly
// up to +50% as a listing's inventory is exhausted.
//
//	multiplier = 1 + 0.5 * clamp(1 - available/total, 0, 1)
//
// A listing with no units configured prices as fully exhausted.
func DynamicMultiplier(available, total int32) float64 {
	if total <= 0 {
		return 1.5
	}
	exhaustion := 1 - float64(available)/float64(total)
	if exhaustion < 0 {
		exhaustion = 0
	}
	if exhaustion > 1 {
		exhaustion = 1
	}
	return 1 + 0.5*exhaustion
}

// DynamicPriceCents returns the demand-adjusted per-day price, rounded to the
// nearest cent. Quote-time and capture-time pricing must both go through this
// function so displayed and charged amounts never diverge.
func DynamicPriceCents(baseCents int64, available, total int32) int64 {
	return int64(math.Round(float64(baseCents) * DynamicMultiplier(available, total)))
}

// TaxCents is the tax policy applied to a checkout subtotal. Currently a flat
// zero; kept as a function so the policy has a single place to change.
func TaxCents(subtotalCents int64) int64 {
	return 0
}
