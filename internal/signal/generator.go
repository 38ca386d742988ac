// Package signal turns satisfied entry/exit conditions into directional
// trading signals with strength and confidence scores.
package signal

import (
	"fmt"
	"time"

	"StratForge/internal/indicator"
	"StratForge/internal/model"
	"StratForge/internal/rule"
)

// Thresholds for the mean-reversion RSI heuristic.
const (
	oversoldRSI   = 30.0
	overboughtRSI = 70.0
)

// Generate maps this bar's condition evaluations to a trading signal. Exit
// conditions win over entry conditions: a satisfied exit always emits SELL to
// close existing exposure. A satisfied entry emits BUY, except for
// mean-reversion strategies which consult the RSI value when one is present.
// Pure function of its inputs.
func Generate(s *model.Strategy, entry, exit rule.ConditionResult, values map[string]indicator.Value, price float64, ts time.Time) model.TradingSignal {
	sig := model.TradingSignal{
		Direction: model.SignalHold,
		Values:    flatten(values),
		Time:      ts,
	}

	switch {
	case exit.Met:
		sig.Direction = model.SignalSell
		sig.Confidence = clip(exit.Score)
		sig.Reasons = exit.Reasons
		sig.Strength = clip(20.0 * float64(len(exit.Reasons)))
	case entry.Met:
		dir, reason := entryDirection(s, values)
		sig.Direction = dir
		sig.Confidence = clip(entry.Score)
		sig.Reasons = entry.Reasons
		// Strength counts satisfied rules only; the heuristic commentary
		// appended below does not contribute.
		sig.Strength = clip(20.0 * float64(len(entry.Reasons)))
		if reason != "" {
			sig.Reasons = append(append([]string{}, sig.Reasons...), reason)
		}
	}
	return sig
}

// entryDirection resolves the directional tag for a satisfied entry
// condition. Strategy kinds other than mean-reversion always buy.
func entryDirection(s *model.Strategy, values map[string]indicator.Value) (model.Direction, string) {
	if s.Kind != model.StrategyMeanReversion {
		return model.SignalBuy, ""
	}
	rsi, ok := findRSI(values)
	if !ok {
		return model.SignalBuy, ""
	}
	switch {
	case rsi < oversoldRSI:
		return model.SignalBuy, fmt.Sprintf("oversold: RSI %.1f < %.0f", rsi, oversoldRSI)
	case rsi > overboughtRSI:
		return model.SignalSell, fmt.Sprintf("overbought: RSI %.1f > %.0f", rsi, overboughtRSI)
	}
	return model.SignalBuy, ""
}

func findRSI(values map[string]indicator.Value) (float64, bool) {
	for _, v := range values {
		if v.Kind == model.KindRSI && !v.Structured() {
			return v.Scalar, true
		}
	}
	return 0, false
}

// flatten snapshots indicator values into the signal; structured fields
// appear as "name.field" keys.
func flatten(values map[string]indicator.Value) map[string]float64 {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]float64, len(values))
	for name, v := range values {
		if v.Fields == nil {
			out[name] = v.Scalar
			continue
		}
		for field, x := range v.Fields {
			out[name+"."+field] = x
		}
	}
	return out
}

func clip(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
