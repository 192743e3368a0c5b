package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Messages overrides the canned user-facing texts. Blank fields keep the
// built-in Turkish defaults.
type Messages struct {
	SystemPrompt   string `yaml:"system_prompt"`
	Greeting       string `yaml:"greeting"`
	Clarify        string `yaml:"clarify"`
	NoSource       string `yaml:"no_source"`
	LocalTemplate  string `yaml:"local_template"`
	ComposedHeader string `yaml:"composed_header"`
	ComposedFooter string `yaml:"composed_footer"`
	AILabel        string `yaml:"ai_label"`
}

// LoadMessages reads a YAML messages file. An empty path is not an error.
func LoadMessages(path string) (Messages, error) {
	if path == "" {
		return Messages{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Messages{}, fmt.Errorf("read messages file: %w", err)
	}
	var out Messages
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Messages{}, fmt.Errorf("parse messages file %s: %w", path, err)
	}
	return out, nil
}
