package indicator

import (
	"errors"
	"fmt"

	"StratForge/internal/model"
)

// Stochastic computes the stochastic oscillator:raw %K over the lookback
// window, smoothed by smoothK, with %D as the smoothD-average of %K.
func Stochastic(bars []model.Bar, period, smoothK, smoothD int) (k, d float64, err error) {
	if period <= 0 || smoothK <= 0 || smoothD <= 0 {
		return 0, 0, errors.New("stochastic periods must be positive")
	}
	need := period + smoothK + smoothD - 2
	if len(bars) < need {
		return 0, 0, fmt.Errorf("stochastic: need %d bars, have %d: %w", need, len(bars), ErrInsufficientData)
	}

	// Raw %K for the trailing smoothK+smoothD-1 bars.
	rawCount := smoothK + smoothD - 1
	raw := make([]float64, rawCount)
	for i := 0; i < rawCount; i++ {
		end := len(bars) - rawCount + i + 1
		raw[i] = rawK(bars[end-period : end])
	}

	// %K series: smoothK-average of raw, %D: smoothD-average of %K.
	kSeries := make([]float64, smoothD)
	for i := 0; i < smoothD; i++ {
		sum := 0.0
		for j := 0; j < smoothK; j++ {
			sum += raw[i+j]
		}
		kSeries[i] = sum / float64(smoothK)
	}

	dSum := 0.0
	for _, v := range kSeries {
		dSum += v
	}
	return kSeries[smoothD-1], dSum / float64(smoothD), nil
}

// rawK computes (close-lowestLow)/(highestHigh-lowestLow)*100 over the
// window. A flat window yields the neutral 50.
func rawK(window []model.Bar) float64 {
	high := window[0].High
	low := window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	if high == low {
		return 50.0
	}
	return (window[len(window)-1].Close - low) / (high - low) * 100.0
}
