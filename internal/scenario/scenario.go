// Package scenario replays scripted navigation sessions against an in-memory
// history stack and records what the router did.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionPush              = "push"
	ActionReplace           = "replace"
	ActionBack              = "back"
	ActionForward           = "forward"
	ActionGo                = "go"
	ActionReload            = "reload"
	ActionGuard             = "guard"
	ActionClearInterceptors = "clear_interceptors"
)

// Scenario is a scripted session.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// InitialURL is the landing entry. It overrides the configured one.
	InitialURL string `yaml:"initial_url,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one user or application action.
type Step struct {
	Action string `yaml:"action"`

	// URL, Search, Hash, RawSearch and RawHash apply to push and replace.
	URL       string         `yaml:"url,omitempty"`
	Search    map[string]any `yaml:"search,omitempty"`
	Hash      map[string]any `yaml:"hash,omitempty"`
	RawSearch *string        `yaml:"raw_search,omitempty"`
	RawHash   *string        `yaml:"raw_hash,omitempty"`

	// Delta applies to go.
	Delta int `yaml:"delta,omitempty"`

	// Dirty and Leave apply to guard: Dirty enables the form interceptor,
	// Leave is the user's answer when asked. A nil Leave keeps the previous
	// answer, initially the configured default.
	Dirty bool  `yaml:"dirty,omitempty"`
	Leave *bool `yaml:"leave,omitempty"`
}

// Load reads and validates a scenario file. Unknown fields are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Validate checks required fields and step actions.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		switch step.Action {
		case ActionPush, ActionReplace:
			if step.URL == "" {
				return fmt.Errorf("step %d: %s requires url", i+1, step.Action)
			}
		case ActionGo:
			if step.Delta == 0 {
				return fmt.Errorf("step %d: go requires a non-zero delta", i+1)
			}
		case ActionBack, ActionForward, ActionReload, ActionGuard, ActionClearInterceptors:
		case "":
			return fmt.Errorf("step %d: action is required", i+1)
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
	}
	return nil
}
