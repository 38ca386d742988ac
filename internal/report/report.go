// Package report renders finished backtest results as human-readable text
// suitable for terminals and Telegram (HTML parse mode).
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"StratForge/internal/model"
)

// Format renders the full run report.
func Format(res *model.BacktestResult) string {
	var b strings.Builder
	m := res.Metrics

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s %s\n", res.StrategyName, res.Symbol, res.Timeframe))
	b.WriteString(fmt.Sprintf("Period: %s → %s\n\n",
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02")))

	b.WriteString("💰 <b>Performance</b>\n")
	b.WriteString(fmt.Sprintf("  Capital: $%s → $%s (%+.2f%%)\n",
		money(m.InitialCapital), money(m.FinalCapital), m.TotalReturnPercent))
	b.WriteString(fmt.Sprintf("  Max drawdown: $%s (%.2f%%)\n", money(m.MaxDrawdown), m.MaxDrawdownPercent))
	b.WriteString(fmt.Sprintf("  Commission paid: $%s\n\n", money(m.TotalCommission)))

	b.WriteString("📈 <b>Trades</b>\n")
	b.WriteString(fmt.Sprintf("  Total: %d (%d wins / %d losses, %.1f%% win rate)\n",
		m.TotalTrades, m.WinningTrades, m.LosingTrades, m.WinRate))
	b.WriteString(fmt.Sprintf("  Profit factor: %.2f | Sharpe: %.2f | Sortino: %.2f\n",
		m.ProfitFactor, m.SharpeRatio, m.SortinoRatio))
	b.WriteString(fmt.Sprintf("  Avg win: $%s | Avg loss: $%s\n", money(m.AverageWin), money(m.AverageLoss)))
	b.WriteString(fmt.Sprintf("  Largest win: $%s | Largest loss: $%s\n", money(m.LargestWin), money(m.LargestLoss)))
	b.WriteString(fmt.Sprintf("  Streaks: %d wins / %d losses | %.2f trades/day\n",
		m.MaxConsecutiveWins, m.MaxConsecutiveLosses, m.AverageTradesPerDay))

	if len(res.Analysis.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Warnings</b>\n")
		for _, w := range res.Analysis.Warnings {
			b.WriteString("  • " + w + "\n")
		}
	}
	if len(res.Analysis.Recommendations) > 0 {
		b.WriteString("\n✅ <b>Recommendations</b>\n")
		for _, r := range res.Analysis.Recommendations {
			b.WriteString("  • " + r + "\n")
		}
	}
	if len(res.Analysis.BestTrades) > 0 {
		b.WriteString("\n🏆 <b>Best trades</b>\n")
		writeTrades(&b, res.Analysis.BestTrades)
	}
	if len(res.Analysis.WorstTrades) > 0 {
		b.WriteString("\n💥 <b>Worst trades</b>\n")
		writeTrades(&b, res.Analysis.WorstTrades)
	}

	return b.String()
}

// Summary renders a one-paragraph digest for notifications.
func Summary(res *model.BacktestResult) string {
	m := res.Metrics
	return fmt.Sprintf("📊 <b>%s</b> %s %s: %d trades, %.1f%% win rate, %+.2f%% return, final $%s",
		res.StrategyName, res.Symbol, res.Timeframe,
		m.TotalTrades, m.WinRate, m.TotalReturnPercent, money(m.FinalCapital))
}

func writeTrades(b *strings.Builder, trades []model.ClosedPosition) {
	for _, t := range trades {
		b.WriteString(fmt.Sprintf("  %s %s %s: %+.2f (%+.2f%%) held %s\n",
			t.EntryTime.Format("2006-01-02"), t.Side, t.ExitReason,
			t.RealizedPnL, t.RealizedPnLPercent, holding(t.HoldingPeriod)))
	}
}

func money(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func holding(d time.Duration) string {
	if d >= 48*time.Hour {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
	return fmt.Sprintf("%.0fh", d.Hours())
}
