// Package runner orchestrates backtest runs: validate the strategy, load its
// bar series, execute the simulation, then persist and report the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StratForge/internal/engine"
	"StratForge/internal/marketdata"
	"StratForge/internal/model"
	"StratForge/internal/notifier"
	"StratForge/internal/recorder"
	"StratForge/internal/report"
	"StratForge/internal/strategy"
	"StratForge/internal/telemetry"
)

// Runner wires one data source, recorder and notifier to the simulation
// engine. A Runner is safe for concurrent use; every run owns its engine.
type Runner struct {
	Source   marketdata.Source
	Recorder recorder.Recorder
	Notifier notifier.Notifier
	Log      zerolog.Logger

	// Bars is the series length requested from the source per run.
	Bars int
}

// RunOnce executes a single backtest for one strategy. Recording and
// notification failures are logged but do not fail the run; the result is
// still returned.
func (r *Runner) RunOnce(ctx context.Context, s *model.Strategy) (*model.BacktestResult, error) {
	started := time.Now()

	if err := strategy.Validate(s); err != nil {
		if !errors.Is(err, strategy.ErrNoTradingRules) {
			telemetry.RunsTotal.WithLabelValues(s.Name, "invalid").Inc()
			return nil, fmt.Errorf("validate strategy %q: %w", s.Name, err)
		}
		r.Log.Warn().Str("strategy", s.Name).Msg("strategy has no trading rules, run will produce zero trades")
	}

	bars, err := r.Source.Bars(s.Symbol, s.Timeframe, r.Bars)
	if err != nil {
		telemetry.RunsTotal.WithLabelValues(s.Name, "data_error").Inc()
		return nil, fmt.Errorf("load bars for %s: %w", s.Symbol, err)
	}
	if warmup := strategy.WarmupBars(s); len(bars) < warmup {
		r.Log.Warn().
			Str("strategy", s.Name).
			Int("bars", len(bars)).
			Int("warmup", warmup).
			Msg("series shorter than indicator warm-up, no bar will be evaluated")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eng := engine.New(engine.ConfigFrom(s), r.Log)
	res, err := eng.Run(s, bars)
	if err != nil {
		telemetry.RunsTotal.WithLabelValues(s.Name, "error").Inc()
		return nil, fmt.Errorf("run %q: %w", s.Name, err)
	}

	telemetry.RunsTotal.WithLabelValues(s.Name, "ok").Inc()
	telemetry.RunDuration.WithLabelValues(s.Name).Observe(time.Since(started).Seconds())
	telemetry.TradesPerRun.WithLabelValues(s.Name).Observe(float64(res.Metrics.TotalTrades))
	telemetry.LastReturnPercent.WithLabelValues(s.Name, s.Symbol).Set(res.Metrics.TotalReturnPercent)

	r.Log.Info().
		Str("strategy", s.Name).
		Str("symbol", s.Symbol).
		Int("bars", len(bars)).
		Int("trades", res.Metrics.TotalTrades).
		Float64("return_pct", res.Metrics.TotalReturnPercent).
		Dur("took", time.Since(started)).
		Msg("backtest finished")

	if err := r.Recorder.SaveResult(res); err != nil {
		r.Log.Error().Str("strategy", s.Name).Err(err).Msg("record result")
	}
	if err := r.Notifier.Send(ctx, report.Summary(res)); err != nil {
		r.Log.Error().Str("strategy", s.Name).Err(err).Msg("send report")
	}

	return res, nil
}

// RunAll executes every strategy concurrently and returns the results that
// succeeded, in strategy order. Individual failures are logged and skipped.
func (r *Runner) RunAll(ctx context.Context, strategies []*model.Strategy) []*model.BacktestResult {
	results := make([]*model.BacktestResult, len(strategies))
	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s *model.Strategy) {
			defer wg.Done()
			res, err := r.RunOnce(ctx, s)
			if err != nil {
				r.Log.Error().Str("strategy", s.Name).Err(err).Msg("backtest run failed")
				return
			}
			results[i] = res
		}(i, s)
	}
	wg.Wait()

	out := results[:0]
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}
