package rule

import (
	"testing"
	"time"

	"StratForge/internal/indicator"
	"StratForge/internal/model"
)

func scalarValues(vals map[string]float64) map[string]indicator.Value {
	out := make(map[string]indicator.Value, len(vals))
	for name, v := range vals {
		out[name] = indicator.Value{Kind: model.KindRSI, Time: time.Now(), Scalar: v}
	}
	return out
}

func TestEvaluateRule_Comparisons(t *testing.T) {
	values := scalarValues(map[string]float64{"rsi": 25})

	tests := []struct {
		op    model.Operator
		cmp   float64
		want  bool
	}{
		{model.OpLess, 30, true},
		{model.OpLess, 20, false},
		{model.OpGreater, 20, true},
		{model.OpGreater, 30, false},
		{model.OpGreaterEq, 25, true},
		{model.OpLessEq, 25, true},
		{model.OpEqual, 25, true},
		{model.OpEqual, 25.00005, true}, // within epsilon
		{model.OpEqual, 25.1, false},
		{model.OpNotEqual, 25.1, true},
		{model.OpNotEqual, 25, false},
	}
	for _, tt := range tests {
		e := NewEvaluator()
		res := e.EvaluateRule(model.ConditionRule{Indicator: "rsi", Op: tt.op, Value: tt.cmp}, values)
		if res.Met != tt.want {
			t.Errorf("rsi %s %v: met=%v, want %v", tt.op, tt.cmp, res.Met, tt.want)
		}
		if res.Reason == "" {
			t.Errorf("rsi %s %v: expected a reason", tt.op, tt.cmp)
		}
	}
}

func TestEvaluateRule_MissingValueIsUnmet(t *testing.T) {
	e := NewEvaluator()
	res := e.EvaluateRule(model.ConditionRule{Indicator: "rsi", Op: model.OpLess, Value: 30}, nil)
	if res.Met {
		t.Error("rule with no indicator value must be unmet")
	}
}

func TestEvaluateRule_StructuredField(t *testing.T) {
	values := map[string]indicator.Value{
		"macd": {Kind: model.KindMACD, Fields: map[string]float64{"macd": 1.5, "signal": 1.0, "histogram": 0.5}},
	}

	e := NewEvaluator()
	res := e.EvaluateRule(model.ConditionRule{Indicator: "macd", Field: "histogram", Op: model.OpGreater, Value: 0}, values)
	if !res.Met {
		t.Error("macd.histogram > 0 should be met")
	}

	// Missing field on a structured value never silently falls back.
	res = e.EvaluateRule(model.ConditionRule{Indicator: "macd", Op: model.OpGreater, Value: 0}, values)
	if res.Met {
		t.Error("structured value without a field selection must be unmet")
	}
}

func TestEvaluateRule_IndicatorReference(t *testing.T) {
	values := scalarValues(map[string]float64{"ema_fast": 105, "ema_slow": 100})
	e := NewEvaluator()
	res := e.EvaluateRule(model.ConditionRule{
		Indicator: "ema_fast", Op: model.OpGreater, CompareTo: "ema_slow",
	}, values)
	if !res.Met {
		t.Error("ema_fast > ema_slow should be met")
	}
}

func TestCrossesAbove_RequiresActualCross(t *testing.T) {
	e := NewEvaluator()
	crossRule := model.ConditionRule{Indicator: "rsi", Op: model.OpCrossesAbove, Value: 50}

	// No history yet: degrades to a plain greater comparison.
	if res := e.EvaluateRule(crossRule, scalarValues(map[string]float64{"rsi": 55})); !res.Met {
		t.Error("without history crosses_above should degrade to >")
	}

	e = NewEvaluator()
	e.Advance(scalarValues(map[string]float64{"rsi": 45}))
	if res := e.EvaluateRule(crossRule, scalarValues(map[string]float64{"rsi": 55})); !res.Met {
		t.Error("45 -> 55 crosses above 50")
	}

	// Already above: no new cross.
	e.Advance(scalarValues(map[string]float64{"rsi": 55}))
	if res := e.EvaluateRule(crossRule, scalarValues(map[string]float64{"rsi": 60})); res.Met {
		t.Error("55 -> 60 does not cross 50 again")
	}
}

func TestCrossesBelow_IndicatorReference(t *testing.T) {
	e := NewEvaluator()
	r := model.ConditionRule{Indicator: "ema_fast", Op: model.OpCrossesBelow, CompareTo: "ema_slow"}

	e.Advance(scalarValues(map[string]float64{"ema_fast": 101, "ema_slow": 100}))
	res := e.EvaluateRule(r, scalarValues(map[string]float64{"ema_fast": 99, "ema_slow": 100}))
	if !res.Met {
		t.Error("fast crossing under slow should be met")
	}

	e.Advance(scalarValues(map[string]float64{"ema_fast": 99, "ema_slow": 100}))
	res = e.EvaluateRule(r, scalarValues(map[string]float64{"ema_fast": 98, "ema_slow": 100}))
	if res.Met {
		t.Error("staying below is not a new cross")
	}
}

func TestEvaluateCondition_And(t *testing.T) {
	values := scalarValues(map[string]float64{"rsi": 25, "adx": 30})
	cond := model.Condition{
		Type:  model.ConditionEntry,
		Logic: model.LogicAnd,
		Rules: []model.ConditionRule{
			{Indicator: "rsi", Op: model.OpLess, Value: 30},
			{Indicator: "adx", Op: model.OpGreater, Value: 25},
		},
	}

	e := NewEvaluator()
	res := e.EvaluateCondition(cond, values)
	if !res.Met || res.Score != 100 {
		t.Errorf("AND with all rules met: met=%v score=%v", res.Met, res.Score)
	}
	if len(res.Reasons) != 2 {
		t.Errorf("expected 2 reasons, got %d", len(res.Reasons))
	}

	cond.Rules[1].Value = 50
	res = e.EvaluateCondition(cond, values)
	if res.Met || res.Score != 0 {
		t.Errorf("AND with one rule unmet: met=%v score=%v", res.Met, res.Score)
	}
}

func TestEvaluateCondition_OrWeighted(t *testing.T) {
	values := scalarValues(map[string]float64{"rsi": 25, "adx": 10})
	cond := model.Condition{
		Type:  model.ConditionEntry,
		Logic: model.LogicOr,
		Rules: []model.ConditionRule{
			{Indicator: "rsi", Op: model.OpLess, Value: 30, Weight: 3},
			{Indicator: "adx", Op: model.OpGreater, Value: 25, Weight: 1},
		},
	}

	e := NewEvaluator()
	res := e.EvaluateCondition(cond, values)
	if !res.Met {
		t.Error("OR with one rule met should be met")
	}
	if res.Score != 75 {
		t.Errorf("weighted OR score: got %v, want 75", res.Score)
	}
}

func TestEvaluateCondition_Empty(t *testing.T) {
	e := NewEvaluator()
	res := e.EvaluateCondition(model.Condition{Logic: model.LogicAnd}, nil)
	if res.Met {
		t.Error("condition with no rules must not be met")
	}
}
