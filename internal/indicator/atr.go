package indicator

import (
	"errors"
	"fmt"
	"math"

	"StratForge/internal/model"
)

// ATR computes the average true range over the trailing period bars.
// Requires period+1 bars so every true range has a previous close.
func ATR(bars []model.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("atr: need %d bars, have %d: %w", period+1, len(bars), ErrInsufficientData)
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1].Close)
	}
	return sum / float64(period), nil
}

// trueRange is the greatest of high-low, |high-prevClose| and |low-prevClose|.
func trueRange(b model.Bar, prevClose float64) float64 {
	tr := b.High - b.Low
	if hc := math.Abs(b.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(b.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}
