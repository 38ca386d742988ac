package strategy

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"StratForge/internal/model"
)

// LoadFile reads strategy definitions from a YAML file with a top-level
// `strategies` list. Strategies without an explicit id are assigned one.
// Definitions are loaded as-is; call Validate before running them.
func LoadFile(path string) ([]*model.Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategies file: %w", err)
	}

	var doc struct {
		Strategies []*model.Strategy `yaml:"strategies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse strategies file: %w", err)
	}
	if len(doc.Strategies) == 0 {
		return nil, fmt.Errorf("no strategies defined in %s", path)
	}

	for _, s := range doc.Strategies {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
	}
	return doc.Strategies, nil
}
