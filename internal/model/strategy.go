package model

// IndicatorKind identifies one of the supported technical indicators.
type IndicatorKind string

const (
	KindSMA        IndicatorKind = "sma"
	KindEMA        IndicatorKind = "ema"
	KindRSI        IndicatorKind = "rsi"
	KindMACD       IndicatorKind = "macd"
	KindBollinger  IndicatorKind = "bollinger"
	KindStochastic IndicatorKind = "stochastic"
	KindATR        IndicatorKind = "atr"
	KindADX        IndicatorKind = "adx"
)

// Kinds lists every supported indicator kind.
var Kinds = []IndicatorKind{
	KindSMA, KindEMA, KindRSI, KindMACD,
	KindBollinger, KindStochastic, KindATR, KindADX,
}

// Structured reports whether the kind produces a multi-field value
// rather than a single scalar.
func (k IndicatorKind) Structured() bool {
	switch k {
	case KindMACD, KindBollinger, KindStochastic:
		return true
	}
	return false
}

// IndicatorSpec configures one indicator instance within a strategy.
// Name is the handle condition rules use to reference its values.
type IndicatorSpec struct {
	Name    string             `json:"name" yaml:"name" validate:"required"`
	Kind    IndicatorKind      `json:"kind" yaml:"kind" validate:"required"`
	Params  map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	Enabled bool               `json:"enabled" yaml:"enabled"`
}

// Operator is a comparison operator usable in a condition rule.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEq    Operator = ">="
	OpLessEq       Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpCrossesAbove Operator = "crosses_above"
	OpCrossesBelow Operator = "crosses_below"
)

// Operators lists every supported comparison operator.
var Operators = []Operator{
	OpGreater, OpLess, OpGreaterEq, OpLessEq,
	OpEqual, OpNotEqual, OpCrossesAbove, OpCrossesBelow,
}

// ConditionRule compares one indicator value against a number or another
// indicator. Field selects a sub-field for structured indicators and must be
// set whenever the referenced indicator produces one. CompareTo, when
// non-empty, names another indicator to compare against instead of Value.
type ConditionRule struct {
	Indicator    string   `json:"indicator" yaml:"indicator" validate:"required"`
	Field        string   `json:"field,omitempty" yaml:"field,omitempty"`
	Op           Operator `json:"op" yaml:"op" validate:"required"`
	Value        float64  `json:"value" yaml:"value"`
	CompareTo    string   `json:"compare_to,omitempty" yaml:"compare_to,omitempty"`
	CompareField string   `json:"compare_field,omitempty" yaml:"compare_field,omitempty"`
	Weight       float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// ConditionType tags a condition as an entry or exit trigger.
type ConditionType string

const (
	ConditionEntry ConditionType = "entry"
	ConditionExit  ConditionType = "exit"
)

// ConditionLogic combines the rules of a condition.
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// Condition groups 1..N rules under a combination logic.
type Condition struct {
	Type  ConditionType   `json:"type" yaml:"type" validate:"required,oneof=entry exit"`
	Logic ConditionLogic  `json:"logic" yaml:"logic" validate:"required,oneof=AND OR"`
	Rules []ConditionRule `json:"rules" yaml:"rules" validate:"required,min=1,dive"`
}

// StrategyKind selects the signal-generation heuristic.
type StrategyKind string

const (
	StrategyTrend         StrategyKind = "trend"
	StrategyMeanReversion StrategyKind = "mean_reversion"
	StrategyBreakout      StrategyKind = "breakout"
	StrategyCustom        StrategyKind = "custom"
)

// RiskParams holds the per-strategy risk and cost settings.
type RiskParams struct {
	InitialCapital      float64 `json:"initial_capital" yaml:"initial_capital" validate:"gt=0"`
	PositionSizePercent float64 `json:"position_size_percent" yaml:"position_size_percent" validate:"gt=0,lte=100"`
	StopLossPercent     float64 `json:"stop_loss_percent" yaml:"stop_loss_percent" validate:"gte=0,lt=100"`
	TakeProfitPercent   float64 `json:"take_profit_percent" yaml:"take_profit_percent" validate:"gte=0"`
	CommissionPercent   float64 `json:"commission_percent" yaml:"commission_percent" validate:"gte=0,lte=10"`
	SlippagePercent     float64 `json:"slippage_percent" yaml:"slippage_percent" validate:"gte=0,lte=10"`
}

// Strategy is a declarative trading strategy definition.
type Strategy struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name" validate:"required"`
	Symbol     string          `json:"symbol" yaml:"symbol" validate:"required"`
	Timeframe  string          `json:"timeframe" yaml:"timeframe" validate:"required"`
	Kind       StrategyKind    `json:"kind" yaml:"kind"`
	Indicators []IndicatorSpec `json:"indicators" yaml:"indicators" validate:"dive"`
	Conditions []Condition     `json:"conditions" yaml:"conditions" validate:"dive"`
	Risk       RiskParams      `json:"risk" yaml:"risk"`
}

// EnabledIndicators returns the specs with the enabled flag set.
func (s *Strategy) EnabledIndicators() []IndicatorSpec {
	out := make([]IndicatorSpec, 0, len(s.Indicators))
	for _, spec := range s.Indicators {
		if spec.Enabled {
			out = append(out, spec)
		}
	}
	return out
}

// ConditionsOf returns the strategy conditions with the given type tag.
func (s *Strategy) ConditionsOf(t ConditionType) []Condition {
	var out []Condition
	for _, c := range s.Conditions {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
