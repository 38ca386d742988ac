// Package marketdata supplies historical bar series to the backtest runner.
// Sources are offline by design: a CSV file exported from an exchange, or a
// deterministic synthetic generator for development runs.
package marketdata

import "StratForge/internal/model"

// Source yields the historical bar series for one symbol and timeframe.
type Source interface {
	Name() string
	Bars(symbol, timeframe string, limit int) ([]model.Bar, error)
}
