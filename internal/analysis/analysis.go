package analysis

import (
	"fmt"
	"sort"

	"StratForge/internal/model"
)

// Thresholds for the deterministic qualitative analysis.
const (
	warnWinRate       = 40.0
	warnProfitFactor  = 1.0
	warnMaxDrawdown   = 20.0
	warnSharpe        = 0.5
	warnMinTrades     = 30
	warnLossStreak    = 5
	goodProfitFactor  = 2.0
	goodSharpe        = 1.0
	goodWinLossRatio  = 2.0
	extremeTradeCount = 5
)

// Analyze derives the qualitative block: threshold-based warnings and
// recommendations plus the five best and worst trades by realized P&L.
func Analyze(m model.BacktestMetrics, trades []model.ClosedPosition) model.Analysis {
	a := model.Analysis{}

	if m.TotalTrades == 0 {
		a.Warnings = append(a.Warnings, "no trades executed: entry conditions never fired over the tested period")
		return a
	}

	if m.WinRate < warnWinRate {
		a.Warnings = append(a.Warnings, fmt.Sprintf("low win rate: %.1f%% of trades were profitable", m.WinRate))
	}
	if m.ProfitFactor < warnProfitFactor {
		a.Warnings = append(a.Warnings, fmt.Sprintf("profit factor %.2f below 1: gross losses exceed gross wins", m.ProfitFactor))
	}
	if m.MaxDrawdownPercent > warnMaxDrawdown {
		a.Warnings = append(a.Warnings, fmt.Sprintf("max drawdown %.1f%% exceeds %.0f%%", m.MaxDrawdownPercent, warnMaxDrawdown))
	}
	if m.SharpeRatio < warnSharpe {
		a.Warnings = append(a.Warnings, fmt.Sprintf("Sharpe ratio %.2f indicates poor risk-adjusted returns", m.SharpeRatio))
	}
	if m.TotalTrades < warnMinTrades {
		a.Warnings = append(a.Warnings, fmt.Sprintf("only %d trades: results may not be statistically significant", m.TotalTrades))
	}
	if m.MaxConsecutiveLosses > warnLossStreak {
		a.Warnings = append(a.Warnings, fmt.Sprintf("%d consecutive losing trades observed", m.MaxConsecutiveLosses))
	}

	if m.ProfitFactor > goodProfitFactor {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("strong profit factor %.2f: strategy edge looks robust", m.ProfitFactor))
	}
	if m.SharpeRatio > goodSharpe {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("Sharpe ratio %.2f: good risk-adjusted performance", m.SharpeRatio))
	}
	if m.AverageLoss > 0 && m.AverageWin/m.AverageLoss > goodWinLossRatio {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("average win is %.1fx the average loss", m.AverageWin/m.AverageLoss))
	}

	a.BestTrades, a.WorstTrades = extremeTrades(trades, extremeTradeCount)
	return a
}

// extremeTrades returns the top and bottom n trades by realized P&L without
// mutating the ledger.
func extremeTrades(trades []model.ClosedPosition, n int) (best, worst []model.ClosedPosition) {
	if len(trades) == 0 {
		return nil, nil
	}
	sorted := make([]model.ClosedPosition, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RealizedPnL > sorted[j].RealizedPnL
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	best = append(best, sorted[:n]...)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		worst = append(worst, sorted[i])
	}
	return best, worst
}
