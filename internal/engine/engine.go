// Package engine implements the historical backtest simulation: it replays a
// strategy candle-by-candle against a bar series, maintaining cash, at most
// one open virtual position and an equity curve, and hands the closed-trade
// ledger to the analysis layer for the final result record.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StratForge/internal/analysis"
	"StratForge/internal/indicator"
	"StratForge/internal/model"
	"StratForge/internal/rule"
	"StratForge/internal/signal"
)

// DefaultMinDataPoints is the trailing history required before the strategy
// is evaluated for the first time.
const DefaultMinDataPoints = 100

// Engine runs backtest simulations. An Engine value carries only immutable
// configuration; every Run owns its own state, so independent runs may
// execute concurrently on separate Engine or shared Engine values alike.
type Engine struct {
	cfg model.RunConfig
	log zerolog.Logger
}

// New creates an engine for the given run configuration. A non-positive
// MinDataPoints falls back to DefaultMinDataPoints.
func New(cfg model.RunConfig, log zerolog.Logger) *Engine {
	if cfg.MinDataPoints <= 0 {
		cfg.MinDataPoints = DefaultMinDataPoints
	}
	return &Engine{cfg: cfg, log: log}
}

// ConfigFrom derives a run configuration from a strategy's risk parameters.
func ConfigFrom(s *model.Strategy) model.RunConfig {
	return model.RunConfig{
		InitialCapital:      s.Risk.InitialCapital,
		PositionSizePercent: s.Risk.PositionSizePercent,
		StopLossPercent:     s.Risk.StopLossPercent,
		TakeProfitPercent:   s.Risk.TakeProfitPercent,
		CommissionPercent:   s.Risk.CommissionPercent,
		SlippagePercent:     s.Risk.SlippagePercent,
	}
}

// runState is the mutable per-run simulation state.
type runState struct {
	cash   float64
	open   *model.Position
	basis  float64 // cost basis of the open position, incl. entry commission
	trades []model.ClosedPosition
	equity []model.EquityPoint
	peak   float64
}

// Run replays the strategy over the bar series and produces the result
// record. An empty series is not an error: it yields a zero-trade result
// with finalCapital equal to initialCapital. Bars must be in ascending
// timestamp order.
func (e *Engine) Run(s *model.Strategy, bars []model.Bar) (*model.BacktestResult, error) {
	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Before(bars[i-1].Time) {
			return nil, fmt.Errorf("bars out of order at index %d: %s before %s",
				i, bars[i].Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}

	st := &runState{
		cash: e.cfg.InitialCapital,
		peak: e.cfg.InitialCapital,
	}
	ev := rule.NewEvaluator()
	specs := s.EnabledIndicators()
	entries := s.ConditionsOf(model.ConditionEntry)
	exits := s.ConditionsOf(model.ConditionExit)

	if len(bars) > 0 {
		// Initial equity point before any bar is processed.
		st.appendEquity(bars[0].Time, e.cfg.InitialCapital)
	}

	for i, bar := range bars {
		if st.open != nil {
			st.open.MarkToMarket(bar.Close)
			e.checkProtectiveExits(st, bar)
		}

		if i+1 < e.cfg.MinDataPoints {
			st.appendEquity(bar.Time, st.equityValue())
			continue
		}

		values := e.computeIndicators(s, specs, bars[:i+1])
		entryEval := combineConditions(ev, entries, values)
		exitEval := combineConditions(ev, exits, values)
		ev.Advance(values)

		sig := signal.Generate(s, entryEval, exitEval, values, bar.Close, bar.Time)
		e.applySignal(st, bar, sig, entryEval.Met, exitEval.Met)

		st.appendEquity(bar.Time, st.equityValue())
	}

	// Force-close anything still open at the final bar's close.
	if st.open != nil && len(bars) > 0 {
		last := bars[len(bars)-1]
		e.closePosition(st, last.Close, last.Time, model.ExitEndOfData)
		st.equity[len(st.equity)-1] = equityPoint(last.Time, st.cash, st.peak)
	}

	return e.buildResult(s, bars, st), nil
}

// computeIndicators evaluates every enabled indicator over the trailing
// window. A failing indicator is logged and excluded from this bar's
// evaluation; the run continues with the values that did compute.
func (e *Engine) computeIndicators(s *model.Strategy, specs []model.IndicatorSpec, window []model.Bar) map[string]indicator.Value {
	values := make(map[string]indicator.Value, len(specs))
	for _, spec := range specs {
		v, err := indicator.Compute(window, spec)
		if err != nil {
			e.log.Warn().
				Str("strategy", s.Name).
				Str("indicator", spec.Name).
				Str("kind", string(spec.Kind)).
				Time("bar", window[len(window)-1].Time).
				Err(err).
				Msg("indicator calculation failed, excluded for this bar")
			continue
		}
		values[spec.Name] = v
	}
	return values
}

// combineConditions evaluates every condition of one type and merges them
// disjunctively: the set is satisfied when any condition is, scored by the
// best satisfied evaluation.
func combineConditions(ev *rule.Evaluator, conds []model.Condition, values map[string]indicator.Value) rule.ConditionResult {
	var merged rule.ConditionResult
	for _, c := range conds {
		res := ev.EvaluateCondition(c, values)
		if !res.Met {
			continue
		}
		merged.Met = true
		merged.Reasons = append(merged.Reasons, res.Reasons...)
		if res.Score > merged.Score {
			merged.Score = res.Score
		}
	}
	return merged
}

// applySignal opens a position when flat on a directional entry signal, or
// closes the open position when the exit condition fired or an opposing
// entry-derived signal arrives. A satisfied exit closes either side: its
// SELL means "close existing exposure", long or short alike. A SELL emitted
// by an exit condition alone never opens a short.
func (e *Engine) applySignal(st *runState, bar model.Bar, sig model.TradingSignal, entryMet, exitMet bool) {
	if st.open == nil {
		if !entryMet {
			return
		}
		switch sig.Direction {
		case model.SignalBuy:
			e.openPosition(st, bar, model.SideLong)
		case model.SignalSell:
			e.openPosition(st, bar, model.SideShort)
		}
		return
	}

	if exitMet {
		e.closePosition(st, bar.Close, bar.Time, model.ExitSignal)
		return
	}
	opposing := (st.open.Side == model.SideLong && sig.Direction == model.SignalSell) ||
		(st.open.Side == model.SideShort && sig.Direction == model.SignalBuy)
	if opposing {
		e.closePosition(st, bar.Close, bar.Time, model.ExitSignal)
	}
}

// openPosition sizes a new position from current capital, applies slippage
// in the unfavorable direction to the entry price, and rejects the open when
// the total cost exceeds available cash.
func (e *Engine) openPosition(st *runState, bar model.Bar, side model.Side) {
	positionValue := st.cash * e.cfg.PositionSizePercent / 100.0
	if positionValue <= 0 {
		return
	}

	slip := e.cfg.SlippagePercent / 100.0
	entryPrice := bar.Close * (1 + slip)
	if side == model.SideShort {
		entryPrice = bar.Close * (1 - slip)
	}
	if entryPrice <= 0 {
		return
	}

	qty := positionValue / entryPrice
	commission := positionValue * e.cfg.CommissionPercent / 100.0
	totalCost := positionValue + commission
	if totalCost > st.cash {
		e.log.Debug().
			Float64("cost", totalCost).
			Float64("cash", st.cash).
			Msg("entry rejected: cost exceeds available capital")
		return
	}

	pos := &model.Position{
		ID:         uuid.NewString(),
		Side:       side,
		EntryPrice: entryPrice,
		EntryTime:  bar.Time,
		Quantity:   qty,
	}
	if e.cfg.StopLossPercent > 0 {
		if side == model.SideLong {
			pos.StopLoss = entryPrice * (1 - e.cfg.StopLossPercent/100.0)
		} else {
			pos.StopLoss = entryPrice * (1 + e.cfg.StopLossPercent/100.0)
		}
	}
	if e.cfg.TakeProfitPercent > 0 {
		if side == model.SideLong {
			pos.TakeProfit = entryPrice * (1 + e.cfg.TakeProfitPercent/100.0)
		} else {
			pos.TakeProfit = entryPrice * (1 - e.cfg.TakeProfitPercent/100.0)
		}
	}
	pos.MarkToMarket(bar.Close)

	st.cash -= totalCost
	st.basis = totalCost
	st.open = pos
}

// checkProtectiveExits closes the open position when the bar's range touched
// its stop-loss or take-profit. The stop-loss is checked first: when both
// would trigger within one bar the loss is taken.
func (e *Engine) checkProtectiveExits(st *runState, bar model.Bar) {
	pos := st.open
	if pos == nil {
		return
	}

	if pos.StopLoss > 0 {
		triggered := (pos.Side == model.SideLong && bar.Low <= pos.StopLoss) ||
			(pos.Side == model.SideShort && bar.High >= pos.StopLoss)
		if triggered {
			e.closePosition(st, pos.StopLoss, bar.Time, model.ExitStopLoss)
			return
		}
	}
	if pos.TakeProfit > 0 {
		triggered := (pos.Side == model.SideLong && bar.High >= pos.TakeProfit) ||
			(pos.Side == model.SideShort && bar.Low <= pos.TakeProfit)
		if triggered {
			e.closePosition(st, pos.TakeProfit, bar.Time, model.ExitTakeProfit)
		}
	}
}

// closePosition realizes the open position at the given price. The exit
// commission is charged on the notional proceeds; realized P&L nets out all
// commissions so initial capital plus the ledger sum reconciles with final
// capital exactly.
func (e *Engine) closePosition(st *runState, price float64, ts time.Time, reason model.ExitReason) {
	pos := st.open
	proceeds := pos.Quantity * price
	exitCommission := proceeds * e.cfg.CommissionPercent / 100.0

	positionValue := pos.Quantity * pos.EntryPrice
	entryCommission := st.basis - positionValue

	var pnl float64
	if pos.Side == model.SideShort {
		gross := (pos.EntryPrice - price) * pos.Quantity
		pnl = gross - entryCommission - exitCommission
		st.cash += positionValue + gross - exitCommission
	} else {
		pnl = proceeds - exitCommission - st.basis
		st.cash += proceeds - exitCommission
	}

	pos.MarkToMarket(price)
	closed := model.ClosedPosition{
		Position:      *pos,
		ExitPrice:     price,
		ExitTime:      ts,
		ExitReason:    reason,
		RealizedPnL:   pnl,
		HoldingPeriod: ts.Sub(pos.EntryTime),
		Commission:    entryCommission + exitCommission,
	}
	if st.basis > 0 {
		closed.RealizedPnLPercent = pnl / st.basis * 100.0
	}

	st.trades = append(st.trades, closed)
	st.open = nil
	st.basis = 0

	e.log.Debug().
		Str("position", closed.ID).
		Str("reason", string(reason)).
		Float64("pnl", pnl).
		Msg("position closed")
}

// equityValue is cash plus the mark-to-market value of the open position.
func (st *runState) equityValue() float64 {
	if st.open == nil {
		return st.cash
	}
	positionValue := st.open.Quantity * st.open.EntryPrice
	return st.cash + positionValue + st.open.UnrealizedPnL
}

func (st *runState) appendEquity(ts time.Time, equity float64) {
	if equity > st.peak {
		st.peak = equity
	}
	st.equity = append(st.equity, equityPoint(ts, equity, st.peak))
}

func equityPoint(ts time.Time, equity, peak float64) model.EquityPoint {
	if equity > peak {
		peak = equity
	}
	p := model.EquityPoint{Time: ts, Equity: equity, Drawdown: peak - equity}
	if peak > 0 {
		p.DrawdownPercent = p.Drawdown / peak * 100.0
	}
	return p
}

func (e *Engine) buildResult(s *model.Strategy, bars []model.Bar, st *runState) *model.BacktestResult {
	res := &model.BacktestResult{
		ID:           uuid.NewString(),
		StrategyID:   s.ID,
		StrategyName: s.Name,
		Symbol:       s.Symbol,
		Timeframe:    s.Timeframe,
		Config:       e.cfg,
		Trades:       st.trades,
		EquityCurve:  st.equity,
		CreatedAt:    time.Now().UTC(),
	}
	if len(bars) > 0 {
		res.Start = bars[0].Time
		res.End = bars[len(bars)-1].Time
	}
	res.Metrics = analysis.ComputeMetrics(st.trades, st.equity, e.cfg)
	res.Analysis = analysis.Analyze(res.Metrics, st.trades)
	return res
}
