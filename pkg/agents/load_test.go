package agents_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/consilium-med/consilium/pkg/agents"
	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestDefaults(t *testing.T) {
	specs := agents.Defaults()
	gt.A(t, specs).Length(5)

	for _, spec := range specs {
		gt.NoError(t, spec.Validate())
		gt.Equal(t, spec.MaxLoops, 1)
		gt.Equal(t, spec.OutputFormat, model.OutputFormatText)
	}

	flow := agents.DefaultFlow()
	gt.A(t, flow).Length(5)
	gt.Equal(t, flow[0], agents.NameDataExtractor)
	gt.Equal(t, flow[4], agents.NameCareCoordinator)

	index := map[string]*model.AgentSpec{}
	for _, spec := range specs {
		index[spec.Name] = spec
	}
	gt.NoError(t, flow.Validate(index))
}

func TestLoadEmptyPath(t *testing.T) {
	specs, flow, err := agents.Load("")
	gt.NoError(t, err)
	gt.A(t, specs).Length(5)
	gt.A(t, flow).Length(5)
}

func TestLoadYAML(t *testing.T) {
	content := `
agents:
  - name: triage
    system_prompt: You triage the case.
    model: gemini
  - name: reviewer
    system_prompt: You review the triage output.
    model: claude
    max_loops: 2
flow: "triage -> reviewer"
`
	path := filepath.Join(t.TempDir(), "agents.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

	specs, flow, err := agents.Load(path)
	gt.NoError(t, err)
	gt.A(t, specs).Length(2)

	gt.Equal(t, specs[0].Name, "triage")
	gt.Equal(t, specs[0].MaxLoops, 1) // defaulted
	gt.Equal(t, specs[0].OutputFormat, model.OutputFormatText)
	gt.Equal(t, specs[1].MaxLoops, 2)

	gt.Equal(t, flow.String(), "triage -> reviewer")
}

func TestLoadYAMLWithoutFlow(t *testing.T) {
	content := `
agents:
  - name: solo
    system_prompt: You do everything.
    model: gemini
`
	path := filepath.Join(t.TempDir(), "agents.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, flow, err := agents.Load(path)
	gt.NoError(t, err)
	gt.Equal(t, flow.String(), "solo")
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := agents.Load(filepath.Join(t.TempDir(), "nope.yml"))
		gt.Error(t, err)
	})

	t.Run("no agents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agents.yml")
		gt.NoError(t, os.WriteFile(path, []byte("agents: []\n"), 0600))
		_, _, err := agents.Load(path)
		gt.Error(t, err)
	})

	t.Run("duplicate names", func(t *testing.T) {
		content := `
agents:
  - name: twin
    system_prompt: a
    model: gemini
  - name: twin
    system_prompt: b
    model: gemini
`
		path := filepath.Join(t.TempDir(), "agents.yml")
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
		_, _, err := agents.Load(path)
		gt.Error(t, err)
	})

	t.Run("invalid spec", func(t *testing.T) {
		content := `
agents:
  - name: broken
    model: gemini
`
		path := filepath.Join(t.TempDir(), "agents.yml")
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
		_, _, err := agents.Load(path)
		gt.Error(t, err)
	})
}
