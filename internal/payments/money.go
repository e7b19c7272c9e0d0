package payments

import (
	"fmt"
	"math"
)

// Providers speak in dollar amounts; everything internal is integer cents.
// Conversion happens only at this boundary.

func CentsToDollarString(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// AmountsMatch tolerates up to one cent of float drift from a provider's
// dollar representation. Anything larger is treated as a mismatch.
func AmountsMatch(expectedCents, actualCents int64) bool {
	diff := expectedCents - actualCents
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}
