package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
)

func TestComputeTotalAppliesPromotionOnce(t *testing.T) {
	// Raw course prices: the promotion applies to the sum.
	total, err := ComputeTotal([]float64{100, 200}, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 270.0, total)

	// Snapshot prices already carry the discount: plain sum, no second cut.
	total, err = ComputeTotal([]float64{90, 180}, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 270.0, total)
}

func TestComputeTotalOrderIndependent(t *testing.T) {
	a, err := ComputeTotal([]float64{19.99, 45.5, 120}, 15, false)
	require.NoError(t, err)
	b, err := ComputeTotal([]float64{120, 19.99, 45.5}, 15, false)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeTotalEmpty(t *testing.T) {
	total, err := ComputeTotal(nil, 50, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestComputeTotalRoundsToCents(t *testing.T) {
	// 33.333... after a one-third discount.
	total, err := ComputeTotal([]float64{50}, 33.333, false)
	require.NoError(t, err)
	assert.Equal(t, 33.33, total)
}

func TestComputeTotalRejectsInvalidPromotion(t *testing.T) {
	_, err := ComputeTotal([]float64{100}, -1, false)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = ComputeTotal([]float64{100}, 101, false)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestDiscountedPrice(t *testing.T) {
	p, err := DiscountedPrice(100, 10)
	require.NoError(t, err)
	assert.Equal(t, 90.0, p)

	p, err = DiscountedPrice(100, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p)

	p, err = DiscountedPrice(100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	_, err = DiscountedPrice(100, 120)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
