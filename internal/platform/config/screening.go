package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/backgroundcheck/x24-platform/internal/connector"
	"github.com/backgroundcheck/x24-platform/internal/risk"
)

// Screening is the operator-editable screening document: the risk policy,
// the connector fleet, and resilience tuning. Omitted sections fall back to
// built-in defaults.
type Screening struct {
	Policy     *risk.Policy                    `yaml:"policy"`
	Connectors []connector.HTTPConnectorConfig `yaml:"connectors"`
	Breaker    *connector.BreakerConfig        `yaml:"breaker"`
	Retry      *connector.RetryConfig          `yaml:"retry"`
}

// LoadScreening reads and validates the screening document. An empty path
// yields the defaults: the built-in policy and an empty connector fleet.
func LoadScreening(path string) (*Screening, error) {
	s := &Screening{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read screening config: %w", err)
		}
		if err := yaml.Unmarshal(raw, s); err != nil {
			return nil, fmt.Errorf("parse screening config: %w", err)
		}
	}

	if s.Policy == nil {
		p := risk.DefaultPolicy()
		s.Policy = &p
	}
	if s.Breaker == nil {
		b := connector.DefaultBreakerConfig()
		s.Breaker = &b
	}
	if s.Retry == nil {
		r := connector.DefaultRetryConfig()
		s.Retry = &r
	}

	if err := s.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("screening config: %w", err)
	}
	seen := make(map[string]struct{}, len(s.Connectors))
	for _, c := range s.Connectors {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("screening config: duplicate connector id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return s, nil
}
