package agents

import (
	"os"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

type rosterFile struct {
	Agents []*model.AgentSpec `yaml:"agents"`
	Flow   string             `yaml:"flow"`
}

// Load reads agent specs and a hand-off flow from a YAML file. An empty path
// returns the built-in roster with the default flow. Omitted max_loops and
// output_format fall back to 1 and "text".
func Load(path string) ([]*model.AgentSpec, model.Flow, error) {
	if path == "" {
		return Defaults(), DefaultFlow(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to read agents file", goerr.V("path", path))
	}

	var file rosterFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse agents file", goerr.V("path", path))
	}
	if len(file.Agents) == 0 {
		return nil, nil, goerr.New("agents file defines no agents", goerr.V("path", path))
	}

	seen := map[string]bool{}
	for _, spec := range file.Agents {
		if spec.MaxLoops == 0 {
			spec.MaxLoops = 1
		}
		if spec.OutputFormat == "" {
			spec.OutputFormat = model.OutputFormatText
		}
		if err := spec.Validate(); err != nil {
			return nil, nil, err
		}
		if seen[spec.Name] {
			return nil, nil, goerr.New("duplicate agent name", goerr.V("agent", spec.Name))
		}
		seen[spec.Name] = true
	}

	flow := make(model.Flow, 0, len(file.Agents))
	if file.Flow != "" {
		flow, err = model.ParseFlow(file.Flow)
		if err != nil {
			return nil, nil, err
		}
	} else {
		for _, spec := range file.Agents {
			flow = append(flow, spec.Name)
		}
	}

	return file.Agents, flow, nil
}
