// Package billing holds the pricing engine: pure money arithmetic, no
// storage access.
package billing

import (
	"math"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

// ComputeTotal sums enrollment prices into a total owed, rounded to cents.
//
// Two call sites exist with different inputs: enrollment snapshots already
// carry the promotion (alreadyDiscounted=true, plain sum), while raw course
// prices do not (alreadyDiscounted=false, the promotion is applied to the
// sum). The explicit flag exists so the discount can never be applied twice.
//
// The total is order independent. A promotion outside [0,100] is a
// validation failure, never clamped.
func ComputeTotal(prices []float64, promotionPercent float64, alreadyDiscounted bool) (float64, error) {
	if err := validatePromotion(promotionPercent); err != nil {
		return 0, err
	}
	var total float64
	for _, p := range prices {
		total += p
	}
	if !alreadyDiscounted {
		total *= 1 - promotionPercent/100
	}
	return roundCents(total), nil
}

// DiscountedPrice derives the single enroll-time snapshot price for a course.
func DiscountedPrice(price, promotionPercent float64) (float64, error) {
	if err := validatePromotion(promotionPercent); err != nil {
		return 0, err
	}
	return roundCents(price * (1 - promotionPercent/100)), nil
}

func validatePromotion(p float64) error {
	if p < 0 || p > 100 {
		return apperr.Newf(apperr.Validation, "promotion invalide: %.2f (attendu 0-100)", p)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
