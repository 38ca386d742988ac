package signal

import (
	"testing"
	"time"

	"StratForge/internal/indicator"
	"StratForge/internal/model"
	"StratForge/internal/rule"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func rsiValues(rsi float64) map[string]indicator.Value {
	return map[string]indicator.Value{
		"rsi": {Kind: model.KindRSI, Time: now, Scalar: rsi},
	}
}

func TestGenerate_Hold(t *testing.T) {
	s := &model.Strategy{Kind: model.StrategyTrend}
	sig := Generate(s, rule.ConditionResult{}, rule.ConditionResult{}, rsiValues(50), 100, now)
	if sig.Direction != model.SignalHold {
		t.Errorf("expected HOLD, got %s", sig.Direction)
	}
	if sig.Strength != 0 || sig.Confidence != 0 {
		t.Errorf("HOLD should carry zero scores: strength=%v confidence=%v", sig.Strength, sig.Confidence)
	}
}

func TestGenerate_EntryBuy(t *testing.T) {
	s := &model.Strategy{Kind: model.StrategyTrend}
	entry := rule.ConditionResult{Met: true, Score: 100, Reasons: []string{"rsi < 30 (met, value=25.0000)"}}
	sig := Generate(s, entry, rule.ConditionResult{}, rsiValues(25), 100, now)
	if sig.Direction != model.SignalBuy {
		t.Errorf("expected BUY, got %s", sig.Direction)
	}
	if sig.Confidence != 100 {
		t.Errorf("confidence should equal the clipped score, got %v", sig.Confidence)
	}
	if sig.Strength != 20 {
		t.Errorf("strength should be 20 per reason, got %v", sig.Strength)
	}
	if sig.Values["rsi"] != 25 {
		t.Error("signal should snapshot the indicator values")
	}
}

func TestGenerate_ExitWinsOverEntry(t *testing.T) {
	s := &model.Strategy{Kind: model.StrategyTrend}
	entry := rule.ConditionResult{Met: true, Score: 100, Reasons: []string{"a"}}
	exit := rule.ConditionResult{Met: true, Score: 80, Reasons: []string{"b"}}
	sig := Generate(s, entry, exit, nil, 100, now)
	if sig.Direction != model.SignalSell {
		t.Errorf("satisfied exit must emit SELL, got %s", sig.Direction)
	}
	if sig.Confidence != 80 {
		t.Errorf("confidence should come from the exit evaluation, got %v", sig.Confidence)
	}
}

func TestGenerate_MeanReversionRSI(t *testing.T) {
	s := &model.Strategy{Kind: model.StrategyMeanReversion}
	entry := rule.ConditionResult{Met: true, Score: 100, Reasons: []string{"r"}}

	tests := []struct {
		rsi  float64
		want model.Direction
	}{
		{25, model.SignalBuy},
		{75, model.SignalSell},
		{50, model.SignalBuy}, // between thresholds falls back to BUY
	}
	for _, tt := range tests {
		sig := Generate(s, entry, rule.ConditionResult{}, rsiValues(tt.rsi), 100, now)
		if sig.Direction != tt.want {
			t.Errorf("rsi=%v: got %s, want %s", tt.rsi, sig.Direction, tt.want)
		}
	}

	// Without an RSI value the heuristic falls back to BUY.
	sig := Generate(s, entry, rule.ConditionResult{}, nil, 100, now)
	if sig.Direction != model.SignalBuy {
		t.Errorf("mean-reversion without RSI should BUY, got %s", sig.Direction)
	}
}

func TestGenerate_StrengthCountsRulesNotHeuristic(t *testing.T) {
	// The overbought commentary appended by the mean-reversion heuristic
	// is explanatory only; strength reflects the single satisfied rule.
	s := &model.Strategy{Kind: model.StrategyMeanReversion}
	entry := rule.ConditionResult{Met: true, Score: 100, Reasons: []string{"rsi > 70 (met, value=75.0000)"}}
	sig := Generate(s, entry, rule.ConditionResult{}, rsiValues(75), 100, now)

	if sig.Direction != model.SignalSell {
		t.Fatalf("expected SELL, got %s", sig.Direction)
	}
	if len(sig.Reasons) != 2 {
		t.Fatalf("expected rule reason plus heuristic commentary, got %v", sig.Reasons)
	}
	if sig.Strength != 20 {
		t.Errorf("strength must count satisfied rules only, got %v", sig.Strength)
	}
}

func TestGenerate_StrengthCap(t *testing.T) {
	s := &model.Strategy{Kind: model.StrategyTrend}
	entry := rule.ConditionResult{Met: true, Score: 250, Reasons: []string{"a", "b", "c", "d", "e", "f"}}
	sig := Generate(s, entry, rule.ConditionResult{}, nil, 100, now)
	if sig.Strength != 100 {
		t.Errorf("strength must cap at 100, got %v", sig.Strength)
	}
	if sig.Confidence != 100 {
		t.Errorf("confidence must clip to 100, got %v", sig.Confidence)
	}
}

func TestGenerate_FlattensStructuredValues(t *testing.T) {
	values := map[string]indicator.Value{
		"macd": {Kind: model.KindMACD, Time: now, Fields: map[string]float64{"macd": 1, "signal": 2, "histogram": -1}},
	}
	s := &model.Strategy{Kind: model.StrategyTrend}
	sig := Generate(s, rule.ConditionResult{}, rule.ConditionResult{}, values, 100, now)
	if sig.Values["macd.histogram"] != -1 {
		t.Errorf("structured values must flatten to name.field keys: %v", sig.Values)
	}
}
