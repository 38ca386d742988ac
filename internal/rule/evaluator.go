// Package rule evaluates strategy condition rules against computed indicator
// values and combines them under AND/OR logic.
package rule

import (
	"fmt"
	"math"

	"StratForge/internal/indicator"
	"StratForge/internal/model"
)

// epsilon is the tolerance used for == and != comparisons so floating-point
// noise does not produce false negatives.
const epsilon = 1e-4

// Result is the outcome of evaluating a single rule.
type Result struct {
	Met    bool
	Reason string
}

// ConditionResult is the outcome of evaluating a full condition.
type ConditionResult struct {
	Met     bool
	Score   float64 // 0-100
	Reasons []string
}

// Evaluator evaluates rules against per-bar indicator values. It remembers
// the previous bar's values so crosses_above/crosses_below can compare two
// consecutive evaluations; before any history exists those operators degrade
// to a plain greater/less comparison. An Evaluator belongs to exactly one
// simulation run and is not safe for concurrent use.
type Evaluator struct {
	prev map[string]float64
}

// NewEvaluator creates an evaluator with empty value history.
func NewEvaluator() *Evaluator {
	return &Evaluator{prev: make(map[string]float64)}
}

// EvaluateRule evaluates one comparison rule. A rule whose referenced
// indicator produced no value this bar is unmet, not an error: per-indicator
// calculation failures degrade only the rules that read them.
func (e *Evaluator) EvaluateRule(r model.ConditionRule, values map[string]indicator.Value) Result {
	lhsKey := valueKey(r.Indicator, r.Field)
	lhs, ok := lookup(values, r.Indicator, r.Field)
	if !ok {
		return Result{Met: false, Reason: fmt.Sprintf("%s: value unavailable", lhsKey)}
	}

	var rhs float64
	rhsKey := ""
	if r.CompareTo != "" {
		rhsKey = valueKey(r.CompareTo, r.CompareField)
		v, ok := lookup(values, r.CompareTo, r.CompareField)
		if !ok {
			return Result{Met: false, Reason: fmt.Sprintf("%s: value unavailable", rhsKey)}
		}
		rhs = v
	} else {
		rhs = r.Value
	}

	met := e.compare(r.Op, lhsKey, lhs, rhsKey, rhs)
	return Result{Met: met, Reason: reason(lhsKey, r.Op, lhs, rhs, met)}
}

// EvaluateCondition combines the condition's rules: AND requires every rule,
// scoring 100 or 0; OR requires at least one, scoring the weighted fraction
// of satisfied rules. Weights default to 1 and are clipped to [0,100].
func (e *Evaluator) EvaluateCondition(c model.Condition, values map[string]indicator.Value) ConditionResult {
	if len(c.Rules) == 0 {
		return ConditionResult{}
	}

	var reasons []string
	metWeight, totalWeight := 0.0, 0.0
	allMet, anyMet := true, false

	for _, r := range c.Rules {
		res := e.EvaluateRule(r, values)
		w := clampWeight(r.Weight)
		totalWeight += w
		if res.Met {
			anyMet = true
			metWeight += w
			reasons = append(reasons, res.Reason)
		} else {
			allMet = false
		}
	}

	switch c.Logic {
	case model.LogicOr:
		score := 0.0
		if totalWeight > 0 {
			score = metWeight / totalWeight * 100.0
		}
		return ConditionResult{Met: anyMet, Score: score, Reasons: reasons}
	default: // AND
		if allMet {
			return ConditionResult{Met: true, Score: 100, Reasons: reasons}
		}
		return ConditionResult{Met: false, Score: 0}
	}
}

// Advance records this bar's values as history for the next bar's
// crosses_above/crosses_below evaluations. Call once per bar, after all
// conditions have been evaluated.
func (e *Evaluator) Advance(values map[string]indicator.Value) {
	for name, v := range values {
		if v.Fields == nil {
			e.prev[name] = v.Scalar
			continue
		}
		for field, x := range v.Fields {
			e.prev[valueKey(name, field)] = x
		}
	}
}

func (e *Evaluator) compare(op model.Operator, lhsKey string, lhs float64, rhsKey string, rhs float64) bool {
	switch op {
	case model.OpGreater:
		return lhs > rhs
	case model.OpLess:
		return lhs < rhs
	case model.OpGreaterEq:
		return lhs >= rhs
	case model.OpLessEq:
		return lhs <= rhs
	case model.OpEqual:
		return math.Abs(lhs-rhs) <= epsilon
	case model.OpNotEqual:
		return math.Abs(lhs-rhs) > epsilon
	case model.OpCrossesAbove:
		prevL, prevR, ok := e.previous(lhsKey, rhsKey, rhs)
		if !ok {
			return lhs > rhs
		}
		return prevL <= prevR && lhs > rhs
	case model.OpCrossesBelow:
		prevL, prevR, ok := e.previous(lhsKey, rhsKey, rhs)
		if !ok {
			return lhs < rhs
		}
		return prevL >= prevR && lhs < rhs
	}
	return false
}

// previous returns the prior bar's values for both sides of a cross. A
// literal right-hand side is its own history.
func (e *Evaluator) previous(lhsKey, rhsKey string, literal float64) (prevL, prevR float64, ok bool) {
	prevL, ok = e.prev[lhsKey]
	if !ok {
		return 0, 0, false
	}
	if rhsKey == "" {
		return prevL, literal, true
	}
	prevR, ok = e.prev[rhsKey]
	if !ok {
		return 0, 0, false
	}
	return prevL, prevR, true
}

func lookup(values map[string]indicator.Value, name, field string) (float64, bool) {
	v, ok := values[name]
	if !ok {
		return 0, false
	}
	// Structured values require an explicit field; validation guarantees it,
	// so a miss here means the rule references a field the kind never emits.
	return v.Field(field)
}

func valueKey(name, field string) string {
	if field == "" {
		return name
	}
	return name + "." + field
}

func clampWeight(w float64) float64 {
	if w == 0 {
		return 1
	}
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}

func reason(key string, op model.Operator, lhs, rhs float64, met bool) string {
	state := "not met"
	if met {
		state = "met"
	}
	return fmt.Sprintf("%s %s %.4f (%s, value=%.4f)", key, op, rhs, state, lhs)
}
