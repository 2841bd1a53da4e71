package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidAgentSpec = goerr.New("invalid agent spec")
	ErrInvalidFlow      = goerr.New("invalid flow")
)

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Validate checks if the output format is valid.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputFormatText, OutputFormatJSON:
		return nil
	default:
		return goerr.Wrap(ErrInvalidAgentSpec, "unknown output format", goerr.V("format", f))
	}
}

// AgentSpec is a static agent configuration record. It has no behavior of
// its own; the pipeline hands it to a model adapter for execution. Specs are
// built once at startup and never mutated.
type AgentSpec struct {
	Name         string       `yaml:"name"`
	SystemPrompt string       `yaml:"system_prompt"`
	Model        string       `yaml:"model"`
	MaxLoops     int          `yaml:"max_loops"`
	OutputFormat OutputFormat `yaml:"output_format"`
}

// Validate checks if the agent spec is complete.
func (s *AgentSpec) Validate() error {
	if s.Name == "" {
		return goerr.Wrap(ErrInvalidAgentSpec, "agent name is empty")
	}
	if s.SystemPrompt == "" {
		return goerr.Wrap(ErrInvalidAgentSpec, "system prompt is empty", goerr.V("agent", s.Name))
	}
	if s.Model == "" {
		return goerr.Wrap(ErrInvalidAgentSpec, "model reference is empty", goerr.V("agent", s.Name))
	}
	if s.MaxLoops < 1 {
		return goerr.Wrap(ErrInvalidAgentSpec, "max_loops must be at least 1", goerr.V("agent", s.Name))
	}
	return s.OutputFormat.Validate()
}

// Flow is the fixed execution order of agents.
type Flow []string

// ParseFlow parses a hand-off expression such as
// "data-extractor -> diagnostician -> planner" into an ordered agent list.
func ParseFlow(expr string) (Flow, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, goerr.Wrap(ErrInvalidFlow, "flow expression is empty")
	}

	var flow Flow
	for _, step := range strings.Split(expr, "->") {
		name := strings.TrimSpace(step)
		if name == "" {
			return nil, goerr.Wrap(ErrInvalidFlow, "flow has an empty step", goerr.V("expr", expr))
		}
		flow = append(flow, name)
	}

	return flow, nil
}

// Validate checks that every step of the flow resolves to a known agent.
func (f Flow) Validate(specs map[string]*AgentSpec) error {
	if len(f) == 0 {
		return goerr.Wrap(ErrInvalidFlow, "flow is empty")
	}
	for _, name := range f {
		if _, ok := specs[name]; !ok {
			return goerr.Wrap(ErrInvalidFlow, "unknown agent in flow", goerr.V("agent", name))
		}
	}
	return nil
}

// String renders the flow back into hand-off expression form.
func (f Flow) String() string {
	return strings.Join(f, " -> ")
}
