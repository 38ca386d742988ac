package marketdata

import (
	"math"
	"math/rand"
	"time"

	"StratForge/internal/model"
)

// SyntheticSource generates a reproducible bar series for development and
// demo runs. The series combines a slow sine cycle with seeded noise so that
// oscillator indicators see both overbought and oversold regimes.
type SyntheticSource struct {
	BasePrice float64
	Seed      int64
}

func NewSyntheticSource(basePrice float64, seed int64) *SyntheticSource {
	if basePrice <= 0 {
		basePrice = 100
	}
	return &SyntheticSource{BasePrice: basePrice, Seed: seed}
}

func (s *SyntheticSource) Name() string { return "synthetic" }

// Bars generates limit bars ending now, spaced per the timeframe string
// ("1m", "5m", "1h", "4h", "1d"; anything else means one hour).
func (s *SyntheticSource) Bars(_, timeframe string, limit int) ([]model.Bar, error) {
	if limit <= 0 {
		limit = 500
	}
	step := timeframeDuration(timeframe)
	start := time.Now().UTC().Truncate(step).Add(-time.Duration(limit) * step)
	rng := rand.New(rand.NewSource(s.Seed))

	bars := make([]model.Bar, limit)
	price := s.BasePrice
	for i := range bars {
		cycle := math.Sin(float64(i)/40.0) * 0.01
		noise := (rng.Float64() - 0.5) * 0.008
		next := price * (1 + cycle + noise)
		if next < 0.01 {
			next = 0.01
		}
		high := math.Max(price, next) * (1 + rng.Float64()*0.004)
		low := math.Min(price, next) * (1 - rng.Float64()*0.004)
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * step),
			Open:   price,
			High:   high,
			Low:    low,
			Close:  next,
			Volume: 500_000 + rng.Float64()*500_000,
		}
		price = next
	}
	return bars, nil
}

func timeframeDuration(tf string) time.Duration {
	switch tf {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
