// Package recorder persists completed backtest results for later analysis.
package recorder

import "StratForge/internal/model"

// Recorder stores one row per completed run. Implementations are safe for
// concurrent use by independent runs.
type Recorder interface {
	SaveResult(res *model.BacktestResult) error
	Close() error
}
