package indicator

import (
	"errors"
	"fmt"
)

// SMA computes the simple moving average of the given prices over the
// specified period.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("sma: need %d prices, have %d: %w", period, len(prices), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMA computes the exponential moving average over the specified period,
// seeded from the SMA of the first period prices with multiplier 2/(period+1).
func EMA(prices []float64, period int) (float64, error) {
	series, err := emaSeries(prices, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// emaSeries returns the EMA value for every index from period-1 to the end of
// prices. The first element is the seeding SMA.
func emaSeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, fmt.Errorf("ema: need %d prices, have %d: %w", period, len(prices), ErrInsufficientData)
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += prices[i]
	}
	seed /= float64(period)

	mult := 2.0 / (float64(period) + 1.0)
	series := make([]float64, 0, len(prices)-period+1)
	series = append(series, seed)
	ema := seed
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*mult + ema
		series = append(series, ema)
	}
	return series, nil
}
