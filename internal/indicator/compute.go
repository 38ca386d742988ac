// Package indicator implements the technical indicator library: pure
// functions mapping a trailing bar window to a scalar or structured value.
// Every computation is stateless, so values may be cached and shared across
// concurrent runs.
package indicator

import (
	"fmt"

	"StratForge/internal/model"
)

// Default parameter values applied when a spec omits them.
const (
	defaultMAPeriod     = 20
	defaultRSIPeriod    = 14
	defaultMACDFast     = 12
	defaultMACDSlow     = 26
	defaultMACDSignal   = 9
	defaultBandPeriod   = 20
	defaultBandMult     = 2.0
	defaultStochPeriod  = 14
	defaultStochSmoothK = 3
	defaultStochSmoothD = 3
	defaultATRPeriod    = 14
	defaultADXPeriod    = 14
)

// Compute evaluates one indicator spec against the trailing bar window and
// returns its value tagged with the time of the last bar. Unknown kinds are a
// configuration error; strategy validation rejects them before any run, so a
// non-nil error here for a validated strategy means insufficient history or a
// degenerate window.
func Compute(bars []model.Bar, spec model.IndicatorSpec) (Value, error) {
	if len(bars) == 0 {
		return Value{}, fmt.Errorf("%s: empty bar window: %w", spec.Kind, ErrInsufficientData)
	}
	ts := bars[len(bars)-1].Time
	closes := model.Closes(bars)

	switch spec.Kind {
	case model.KindSMA:
		v, err := SMA(closes, intParam(spec.Params, "period", defaultMAPeriod))
		if err != nil {
			return Value{}, err
		}
		return scalar(spec.Kind, ts, v), nil

	case model.KindEMA:
		v, err := EMA(closes, intParam(spec.Params, "period", defaultMAPeriod))
		if err != nil {
			return Value{}, err
		}
		return scalar(spec.Kind, ts, v), nil

	case model.KindRSI:
		v, err := RSI(closes, intParam(spec.Params, "period", defaultRSIPeriod))
		if err != nil {
			return Value{}, err
		}
		return scalar(spec.Kind, ts, v), nil

	case model.KindMACD:
		macd, sig, hist, err := MACD(closes,
			intParam(spec.Params, "fast", defaultMACDFast),
			intParam(spec.Params, "slow", defaultMACDSlow),
			intParam(spec.Params, "signal", defaultMACDSignal))
		if err != nil {
			return Value{}, err
		}
		return structured(spec.Kind, ts, map[string]float64{
			"macd": macd, "signal": sig, "histogram": hist,
		}), nil

	case model.KindBollinger:
		upper, middle, lower, err := Bollinger(closes,
			intParam(spec.Params, "period", defaultBandPeriod),
			floatParam(spec.Params, "mult", defaultBandMult))
		if err != nil {
			return Value{}, err
		}
		return structured(spec.Kind, ts, map[string]float64{
			"upper": upper, "middle": middle, "lower": lower,
		}), nil

	case model.KindStochastic:
		k, d, err := Stochastic(bars,
			intParam(spec.Params, "period", defaultStochPeriod),
			intParam(spec.Params, "smooth_k", defaultStochSmoothK),
			intParam(spec.Params, "smooth_d", defaultStochSmoothD))
		if err != nil {
			return Value{}, err
		}
		return structured(spec.Kind, ts, map[string]float64{"k": k, "d": d}), nil

	case model.KindATR:
		v, err := ATR(bars, intParam(spec.Params, "period", defaultATRPeriod))
		if err != nil {
			return Value{}, err
		}
		return scalar(spec.Kind, ts, v), nil

	case model.KindADX:
		v, err := ADX(bars, intParam(spec.Params, "period", defaultADXPeriod))
		if err != nil {
			return Value{}, err
		}
		return scalar(spec.Kind, ts, v), nil
	}

	return Value{}, fmt.Errorf("unknown indicator kind %q", spec.Kind)
}

// MinBars returns the minimum window length the spec needs before Compute can
// produce a value.
func MinBars(spec model.IndicatorSpec) int {
	switch spec.Kind {
	case model.KindSMA, model.KindEMA:
		return intParam(spec.Params, "period", defaultMAPeriod)
	case model.KindRSI:
		return intParam(spec.Params, "period", defaultRSIPeriod) + 1
	case model.KindMACD:
		return intParam(spec.Params, "slow", defaultMACDSlow) +
			intParam(spec.Params, "signal", defaultMACDSignal) - 1
	case model.KindBollinger:
		return intParam(spec.Params, "period", defaultBandPeriod)
	case model.KindStochastic:
		return intParam(spec.Params, "period", defaultStochPeriod) +
			intParam(spec.Params, "smooth_k", defaultStochSmoothK) +
			intParam(spec.Params, "smooth_d", defaultStochSmoothD) - 2
	case model.KindATR:
		return intParam(spec.Params, "period", defaultATRPeriod) + 1
	case model.KindADX:
		return 2*intParam(spec.Params, "period", defaultADXPeriod) + 1
	}
	return 0
}

// Fields returns the field names a structured kind produces, nil for scalar
// kinds. Strategy validation uses it to check rule field references.
func Fields(kind model.IndicatorKind) []string {
	switch kind {
	case model.KindMACD:
		return []string{"macd", "signal", "histogram"}
	case model.KindBollinger:
		return []string{"upper", "middle", "lower"}
	case model.KindStochastic:
		return []string{"k", "d"}
	}
	return nil
}

func intParam(params map[string]float64, key string, def int) int {
	if v, ok := params[key]; ok && v > 0 {
		return int(v)
	}
	return def
}

func floatParam(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok && v > 0 {
		return v
	}
	return def
}
