package strategy

import (
	"errors"
	"strings"
	"testing"

	"StratForge/internal/model"
)

func validStrategy() *model.Strategy {
	return &model.Strategy{
		Name:      "rsi-reversion",
		Symbol:    "BTCUSDT",
		Timeframe: "1h",
		Kind:      model.StrategyMeanReversion,
		Indicators: []model.IndicatorSpec{
			{Name: "rsi", Kind: model.KindRSI, Params: map[string]float64{"period": 14}, Enabled: true},
			{Name: "macd", Kind: model.KindMACD, Enabled: true},
		},
		Conditions: []model.Condition{
			{
				Type:  model.ConditionEntry,
				Logic: model.LogicAnd,
				Rules: []model.ConditionRule{
					{Indicator: "rsi", Op: model.OpLess, Value: 30},
					{Indicator: "macd", Field: "histogram", Op: model.OpGreater, Value: 0},
				},
			},
			{
				Type:  model.ConditionExit,
				Logic: model.LogicOr,
				Rules: []model.ConditionRule{
					{Indicator: "rsi", Op: model.OpGreater, Value: 70},
				},
			},
		},
		Risk: model.RiskParams{
			InitialCapital:      10000,
			PositionSizePercent: 10,
			StopLossPercent:     5,
			TakeProfitPercent:   10,
			CommissionPercent:   0.1,
			SlippagePercent:     0.05,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validStrategy()); err != nil {
		t.Fatalf("valid strategy rejected: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Strategy)
		wantSub string
	}{
		{"unknown indicator kind", func(s *model.Strategy) { s.Indicators[0].Kind = "vwap" }, "unknown indicator kind"},
		{"unknown operator", func(s *model.Strategy) { s.Conditions[0].Rules[0].Op = "~=" }, "unknown operator"},
		{"unknown strategy kind", func(s *model.Strategy) { s.Kind = "arbitrage" }, "unknown strategy kind"},
		{"undeclared indicator", func(s *model.Strategy) { s.Conditions[0].Rules[0].Indicator = "ghost" }, "undeclared indicator"},
		{"duplicate indicator name", func(s *model.Strategy) { s.Indicators[1].Name = "rsi" }, "duplicate indicator name"},
		{"structured without field", func(s *model.Strategy) { s.Conditions[0].Rules[1].Field = "" }, "requires an explicit field"},
		{"structured with bad field", func(s *model.Strategy) { s.Conditions[0].Rules[1].Field = "delta" }, "has no field"},
		{"scalar with field", func(s *model.Strategy) { s.Conditions[0].Rules[0].Field = "value" }, "takes no field"},
		{"negative weight", func(s *model.Strategy) { s.Conditions[0].Rules[0].Weight = -1 }, "weight"},
		{"bad parameter", func(s *model.Strategy) { s.Indicators[0].Params["period"] = -5 }, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStrategy()
			tt.mutate(s)
			err := Validate(s)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate_StructTags(t *testing.T) {
	s := validStrategy()
	s.Risk.InitialCapital = 0
	if err := Validate(s); err == nil {
		t.Error("zero initial capital must be rejected")
	}

	s = validStrategy()
	s.Name = ""
	if err := Validate(s); err == nil {
		t.Error("missing name must be rejected")
	}
}

func TestValidate_NoTradingRules(t *testing.T) {
	s := validStrategy()
	s.Conditions = nil
	if err := Validate(s); !errors.Is(err, ErrNoTradingRules) {
		t.Errorf("expected ErrNoTradingRules, got %v", err)
	}

	s = validStrategy()
	for i := range s.Indicators {
		s.Indicators[i].Enabled = false
	}
	// Rules still reference the disabled indicators; declaration is what the
	// reference check cares about.
	if err := Validate(s); !errors.Is(err, ErrNoTradingRules) {
		t.Errorf("expected ErrNoTradingRules, got %v", err)
	}
}

func TestWarmupBars(t *testing.T) {
	s := validStrategy()
	// MACD 26+9-1=34 dominates RSI 14+1=15.
	if got := WarmupBars(s); got != 34 {
		t.Errorf("warmup bars: got %d, want 34", got)
	}
	s.Indicators[1].Enabled = false
	if got := WarmupBars(s); got != 15 {
		t.Errorf("warmup bars: got %d, want 15", got)
	}
}
