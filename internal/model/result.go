package model

import "time"

// RunConfig is the run-level simulation configuration. It is derived from the
// strategy's risk parameters plus engine defaults and snapshotted into the
// result so a run can be reproduced.
type RunConfig struct {
	InitialCapital      float64 `json:"initial_capital"`
	PositionSizePercent float64 `json:"position_size_percent"`
	StopLossPercent     float64 `json:"stop_loss_percent"`
	TakeProfitPercent   float64 `json:"take_profit_percent"`
	CommissionPercent   float64 `json:"commission_percent"`
	SlippagePercent     float64 `json:"slippage_percent"`
	MinDataPoints       int     `json:"min_data_points"`
}

// EquityPoint is one sample of the equity curve: cash plus the
// mark-to-market value of any open position, with drawdown from the
// running peak.
type EquityPoint struct {
	Time            time.Time `json:"time"`
	Equity          float64   `json:"equity"`
	Drawdown        float64   `json:"drawdown"`
	DrawdownPercent float64   `json:"drawdown_percent"`
}

// BacktestMetrics aggregates the performance statistics of a finished run.
// ProfitFactor is capped at ProfitFactorCap when the run has gross wins but
// no gross losses.
type BacktestMetrics struct {
	TotalTrades          int     `json:"total_trades"`
	WinningTrades        int     `json:"winning_trades"`
	LosingTrades         int     `json:"losing_trades"`
	WinRate              float64 `json:"win_rate"`
	ProfitFactor         float64 `json:"profit_factor"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	SortinoRatio         float64 `json:"sortino_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	MaxDrawdownPercent   float64 `json:"max_drawdown_percent"`
	InitialCapital       float64 `json:"initial_capital"`
	FinalCapital         float64 `json:"final_capital"`
	TotalReturn          float64 `json:"total_return"`
	TotalReturnPercent   float64 `json:"total_return_percent"`
	AverageWin           float64 `json:"average_win"`
	AverageLoss          float64 `json:"average_loss"`
	LargestWin           float64 `json:"largest_win"`
	LargestLoss          float64 `json:"largest_loss"`
	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
	AverageTradesPerDay  float64 `json:"average_trades_per_day"`
	TotalCommission      float64 `json:"total_commission"`
}

// ProfitFactorCap is the finite sentinel reported when a run has winning
// trades and zero losing P&L. Serialized results must never carry an
// infinity literal.
const ProfitFactorCap = 999.0

// Analysis is the qualitative layer derived from the metrics: threshold-based
// warnings and recommendations plus the extreme trades.
type Analysis struct {
	BestTrades      []ClosedPosition `json:"best_trades,omitempty"`
	WorstTrades     []ClosedPosition `json:"worst_trades,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// BacktestResult is the complete output of one simulation run.
type BacktestResult struct {
	ID           string           `json:"id"`
	StrategyID   string           `json:"strategy_id"`
	StrategyName string           `json:"strategy_name"`
	Symbol       string           `json:"symbol"`
	Timeframe    string           `json:"timeframe"`
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Config       RunConfig        `json:"config"`
	Metrics      BacktestMetrics  `json:"metrics"`
	Trades       []ClosedPosition `json:"trades"`
	EquityCurve  []EquityPoint    `json:"equity_curve"`
	Analysis     Analysis         `json:"analysis"`
	CreatedAt    time.Time        `json:"created_at"`
}
