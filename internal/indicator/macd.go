package indicator

import (
	"errors"
	"fmt"
)

// MACD computes the moving average convergence/divergence line, its signal
// line and the histogram. The signal line is an EMA of the MACD series
// itself, not of price, so the minimum history is slow+signal-1 prices.
func MACD(prices []float64, fast, slow, signal int) (macd, sig, hist float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return 0, 0, 0, errors.New("macd periods must be positive")
	}
	if fast >= slow {
		return 0, 0, 0, errors.New("macd fast period must be shorter than slow period")
	}
	need := slow + signal - 1
	if len(prices) < need {
		return 0, 0, 0, fmt.Errorf("macd: need %d prices, have %d: %w", need, len(prices), ErrInsufficientData)
	}

	fastSeries, err := emaSeries(prices, fast)
	if err != nil {
		return 0, 0, 0, err
	}
	slowSeries, err := emaSeries(prices, slow)
	if err != nil {
		return 0, 0, 0, err
	}

	// Both series end at the last price; align them from the point where the
	// slow EMA becomes defined.
	offset := len(fastSeries) - len(slowSeries)
	macdSeries := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdSeries[i] = fastSeries[i+offset] - slowSeries[i]
	}

	sigSeries, err := emaSeries(macdSeries, signal)
	if err != nil {
		return 0, 0, 0, err
	}

	macd = macdSeries[len(macdSeries)-1]
	sig = sigSeries[len(sigSeries)-1]
	return macd, sig, macd - sig, nil
}
