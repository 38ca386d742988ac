// Package strategy loads and validates declarative strategy definitions
// before any simulation bar is processed. Everything that can be wrong with a
// definition (unknown indicator kinds, unknown operators, bad parameter
// ranges, ambiguous field references) is a configuration error surfaced here,
// never during a run.
package strategy

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"StratForge/internal/indicator"
	"StratForge/internal/model"
)

// ErrNoTradingRules marks a structurally valid strategy that can never trade
// because it has no enabled indicators or no conditions. The engine handles
// such strategies gracefully (zero trades), so callers may treat this as a
// warning rather than a failure.
var ErrNoTradingRules = errors.New("strategy has no enabled indicators or no conditions")

var validate = validator.New()

// Validate checks a strategy definition: struct-level constraints first, then
// the semantic rules the tags cannot express.
func Validate(s *model.Strategy) error {
	if s == nil {
		return errors.New("strategy is nil")
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("strategy %q: %w", s.Name, err)
	}

	if s.Kind != "" {
		switch s.Kind {
		case model.StrategyTrend, model.StrategyMeanReversion, model.StrategyBreakout, model.StrategyCustom:
		default:
			return fmt.Errorf("strategy %q: unknown strategy kind %q", s.Name, s.Kind)
		}
	}

	kinds := make(map[string]model.IndicatorKind, len(s.Indicators))
	enabled := 0
	for _, spec := range s.Indicators {
		if !knownKind(spec.Kind) {
			return fmt.Errorf("strategy %q: indicator %q: unknown indicator kind %q", s.Name, spec.Name, spec.Kind)
		}
		if _, dup := kinds[spec.Name]; dup {
			return fmt.Errorf("strategy %q: duplicate indicator name %q", s.Name, spec.Name)
		}
		for key, v := range spec.Params {
			if v <= 0 {
				return fmt.Errorf("strategy %q: indicator %q: parameter %q must be positive, got %v", s.Name, spec.Name, key, v)
			}
		}
		kinds[spec.Name] = spec.Kind
		if spec.Enabled {
			enabled++
		}
	}

	for ci, cond := range s.Conditions {
		for ri, r := range cond.Rules {
			where := fmt.Sprintf("strategy %q: condition %d rule %d", s.Name, ci, ri)
			if !knownOperator(r.Op) {
				return fmt.Errorf("%s: unknown operator %q", where, r.Op)
			}
			if r.Weight < 0 {
				return fmt.Errorf("%s: weight must not be negative, got %v", where, r.Weight)
			}
			if err := checkReference(kinds, r.Indicator, r.Field); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			if r.CompareTo != "" {
				if err := checkReference(kinds, r.CompareTo, r.CompareField); err != nil {
					return fmt.Errorf("%s: compare_to: %w", where, err)
				}
			}
		}
	}

	if enabled == 0 || len(s.Conditions) == 0 {
		return fmt.Errorf("strategy %q: %w", s.Name, ErrNoTradingRules)
	}
	return nil
}

// checkReference verifies a rule's indicator reference: the name must be
// declared, structured kinds require an explicit field (the ambiguous
// no-field case is rejected, not silently resolved), and scalar kinds must
// not name one.
func checkReference(kinds map[string]model.IndicatorKind, name, field string) error {
	kind, ok := kinds[name]
	if !ok {
		return fmt.Errorf("references undeclared indicator %q", name)
	}
	if kind.Structured() {
		if field == "" {
			return fmt.Errorf("indicator %q (%s) is structured and requires an explicit field, one of %v", name, kind, indicator.Fields(kind))
		}
		for _, f := range indicator.Fields(kind) {
			if f == field {
				return nil
			}
		}
		return fmt.Errorf("indicator %q (%s) has no field %q, expected one of %v", name, kind, field, indicator.Fields(kind))
	}
	if field != "" {
		return fmt.Errorf("indicator %q (%s) is scalar and takes no field, got %q", name, kind, field)
	}
	return nil
}

func knownKind(k model.IndicatorKind) bool {
	for _, kind := range model.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func knownOperator(op model.Operator) bool {
	for _, o := range model.Operators {
		if op == o {
			return true
		}
	}
	return false
}

// WarmupBars returns the largest minimum window among the strategy's enabled
// indicators: the number of trailing bars the engine must accumulate before
// the strategy can be evaluated at all.
func WarmupBars(s *model.Strategy) int {
	max := 0
	for _, spec := range s.EnabledIndicators() {
		if n := indicator.MinBars(spec); n > max {
			max = n
		}
	}
	return max
}
