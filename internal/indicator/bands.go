package indicator

import (
	"errors"
	"fmt"
	"math"
)

// Bollinger computes the Bollinger Bands over the trailing window: the middle
// band is the SMA, the upper/lower bands sit mult standard deviations away.
func Bollinger(prices []float64, period int, mult float64) (upper, middle, lower float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if mult <= 0 {
		return 0, 0, 0, errors.New("multiplier must be positive")
	}
	if len(prices) < period {
		return 0, 0, 0, fmt.Errorf("bollinger: need %d prices, have %d: %w", period, len(prices), ErrInsufficientData)
	}

	window := prices[len(prices)-period:]
	sum := 0.0
	for _, p := range window {
		sum += p
	}
	middle = sum / float64(period)

	variance := 0.0
	for _, p := range window {
		d := p - middle
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(period))

	return middle + mult*stddev, middle, middle - mult*stddev, nil
}
