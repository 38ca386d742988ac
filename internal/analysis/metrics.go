// Package analysis derives aggregate performance statistics and the
// qualitative analysis block from a finished run's trade ledger and equity
// curve. Everything here is a pure function over immutable inputs.
package analysis

import (
	"math"
	"time"

	"StratForge/internal/model"
)

// ComputeMetrics rolls up the closed-trade ledger and equity curve into the
// run's aggregate statistics. Loss aggregates (AverageLoss, LargestLoss) are
// reported as positive magnitudes. A run with gross wins and zero gross
// losses reports model.ProfitFactorCap instead of an infinity literal.
func ComputeMetrics(trades []model.ClosedPosition, equity []model.EquityPoint, cfg model.RunConfig) model.BacktestMetrics {
	m := model.BacktestMetrics{
		TotalTrades:    len(trades),
		InitialCapital: cfg.InitialCapital,
		FinalCapital:   cfg.InitialCapital,
	}

	var grossWins, grossLosses, pnlSum float64
	returns := make([]float64, 0, len(trades))
	for _, t := range trades {
		pnlSum += t.RealizedPnL
		m.TotalCommission += t.Commission
		returns = append(returns, t.RealizedPnLPercent)

		if t.RealizedPnL >= 0 {
			m.WinningTrades++
			grossWins += t.RealizedPnL
			if t.RealizedPnL > m.LargestWin {
				m.LargestWin = t.RealizedPnL
			}
		} else {
			m.LosingTrades++
			loss := -t.RealizedPnL
			grossLosses += loss
			if loss > m.LargestLoss {
				m.LargestLoss = loss
			}
		}
	}

	m.FinalCapital = cfg.InitialCapital + pnlSum
	m.TotalReturn = pnlSum
	if cfg.InitialCapital > 0 {
		m.TotalReturnPercent = pnlSum / cfg.InitialCapital * 100.0
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100.0
	}
	if m.WinningTrades > 0 {
		m.AverageWin = grossWins / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoss = grossLosses / float64(m.LosingTrades)
	}

	switch {
	case grossLosses > 0:
		m.ProfitFactor = grossWins / grossLosses
		if m.ProfitFactor > model.ProfitFactorCap {
			m.ProfitFactor = model.ProfitFactorCap
		}
	case grossWins > 0:
		m.ProfitFactor = model.ProfitFactorCap
	}

	m.SharpeRatio = sharpe(returns)
	m.SortinoRatio = sortino(returns)
	m.MaxConsecutiveWins, m.MaxConsecutiveLosses = streaks(trades)

	for _, p := range equity {
		if p.Drawdown > m.MaxDrawdown {
			m.MaxDrawdown = p.Drawdown
		}
		if p.DrawdownPercent > m.MaxDrawdownPercent {
			m.MaxDrawdownPercent = p.DrawdownPercent
		}
	}

	if len(equity) >= 2 {
		period := equity[len(equity)-1].Time.Sub(equity[0].Time)
		if period > 0 {
			days := period.Hours() / 24.0
			m.AverageTradesPerDay = float64(m.TotalTrades) / days
		}
	}

	return m
}

// sharpe is mean trade return over its standard deviation, risk-free rate 0.
// Zero when there are no trades or the returns have no variance.
func sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := meanOf(returns)
	sd := stddev(returns, mean)
	if sd == 0 {
		return 0
	}
	return mean / sd
}

// sortino penalizes only downside volatility: the denominator is the
// standard deviation of the negative trade returns alone.
func sortino(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return 0
	}
	sd := stddev(negatives, meanOf(negatives))
	if sd == 0 {
		return 0
	}
	return meanOf(returns) / sd
}

// streaks walks the ledger once in execution order counting the longest runs
// of consecutive winning and losing trades.
func streaks(trades []model.ClosedPosition) (maxWins, maxLosses int) {
	wins, losses := 0, 0
	for _, t := range trades {
		if t.RealizedPnL >= 0 {
			wins++
			losses = 0
		} else {
			losses++
			wins = 0
		}
		if wins > maxWins {
			maxWins = wins
		}
		if losses > maxLosses {
			maxLosses = losses
		}
	}
	return maxWins, maxLosses
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// Reconciles reports whether initial capital plus the ledger's realized P&L
// matches final capital within floating tolerance. Exposed for tests and the
// recorder's sanity check before persisting a result.
func Reconciles(res *model.BacktestResult) bool {
	sum := res.Config.InitialCapital
	for _, t := range res.Trades {
		sum += t.RealizedPnL
	}
	tolerance := 1e-6 * math.Max(1, math.Abs(res.Metrics.FinalCapital))
	if math.Abs(sum-res.Metrics.FinalCapital) > tolerance {
		return false
	}
	if n := len(res.EquityCurve); n > 0 {
		return math.Abs(res.EquityCurve[n-1].Equity-res.Metrics.FinalCapital) <= tolerance
	}
	return true
}

// BacktestDuration is the wall span of the simulated period.
func BacktestDuration(res *model.BacktestResult) time.Duration {
	return res.End.Sub(res.Start)
}
