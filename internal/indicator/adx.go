package indicator

import (
	"errors"
	"fmt"
	"math"

	"StratForge/internal/model"
)

// ADX computes the average directional index from Wilder-smoothed directional
// movement and true range. Requires 2*period+1 bars and clamps the result to
// [0,100].
func ADX(bars []model.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	need := 2*period + 1
	if len(bars) < need {
		return 0, fmt.Errorf("adx: need %d bars, have %d: %w", need, len(bars), ErrInsufficientData)
	}

	// Directional movement and true range per bar.
	n := len(bars) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
		tr[i-1] = trueRange(bars[i], bars[i-1].Close)
	}

	// Wilder smoothing of DM and TR, then a DX series.
	smPlus := wilderSum(plusDM, period)
	smMinus := wilderSum(minusDM, period)
	smTR := wilderSum(tr, period)

	dx := make([]float64, 0, len(smTR))
	for i := range smTR {
		if smTR[i] == 0 {
			dx = append(dx, 0)
			continue
		}
		diPlus := 100.0 * smPlus[i] / smTR[i]
		diMinus := 100.0 * smMinus[i] / smTR[i]
		sum := diPlus + diMinus
		if sum == 0 {
			dx = append(dx, 0)
			continue
		}
		dx = append(dx, 100.0*math.Abs(diPlus-diMinus)/sum)
	}

	if len(dx) < period {
		return 0, fmt.Errorf("adx: need %d dx samples, have %d: %w", period, len(dx), ErrInsufficientData)
	}

	// ADX seeds as the average of the first period DX values, then smooths.
	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dx[i]
	}
	adx /= float64(period)
	for i := period; i < len(dx); i++ {
		adx = (adx*float64(period-1) + dx[i]) / float64(period)
	}

	if adx < 0 {
		adx = 0
	}
	if adx > 100 {
		adx = 100
	}
	return adx, nil
}

// wilderSum produces the Wilder-smoothed running sums of values: the first
// element is the plain sum of the first period values.
func wilderSum(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out = append(out, sum)
	for i := period; i < len(values); i++ {
		sum = sum - sum/float64(period) + values[i]
		out = append(out, sum)
	}
	return out
}
