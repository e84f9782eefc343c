package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a rule setting from either a bare severity scalar
// or a [severity, option...] sequence.
func (rs *RuleSetting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		sev, err := ParseSeverity(raw)
		if err != nil {
			return err
		}
		rs.Severity = sev
		rs.Options = nil
		return nil

	case yaml.SequenceNode:
		var raw []any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if len(raw) == 0 {
			return fmt.Errorf("rule setting list must not be empty")
		}
		sev, err := ParseSeverity(raw[0])
		if err != nil {
			return err
		}
		rs.Severity = sev
		rs.Options = raw[1:]
		return nil

	default:
		return fmt.Errorf("rule setting must be a severity or a [severity, options...] list")
	}
}

// MarshalYAML encodes a rule setting back to its compact form.
func (rs RuleSetting) MarshalYAML() (any, error) {
	if len(rs.Options) == 0 {
		return string(rs.Severity), nil
	}
	out := make([]any, 0, len(rs.Options)+1)
	out = append(out, string(rs.Severity))
	out = append(out, rs.Options...)
	return out, nil
}

// ParseYAML decodes a YAML document into a Config, applying defaults first.
func ParseYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleSetting)
	}
	return cfg, nil
}

// ToYAML encodes a Config as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
