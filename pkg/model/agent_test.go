package model_test

import (
	"testing"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestParseFlow(t *testing.T) {
	flow, err := model.ParseFlow("extractor -> diagnostician -> planner")
	gt.NoError(t, err)
	gt.A(t, flow).Length(3)
	gt.Equal(t, flow[0], "extractor")
	gt.Equal(t, flow[2], "planner")
	gt.Equal(t, flow.String(), "extractor -> diagnostician -> planner")
}

func TestParseFlowSingleAgent(t *testing.T) {
	flow, err := model.ParseFlow("extractor")
	gt.NoError(t, err)
	gt.A(t, flow).Length(1)
}

func TestParseFlowErrors(t *testing.T) {
	t.Run("empty expression", func(t *testing.T) {
		_, err := model.ParseFlow("  ")
		gt.Error(t, err)
	})

	t.Run("dangling arrow", func(t *testing.T) {
		_, err := model.ParseFlow("extractor -> ")
		gt.Error(t, err)
	})
}

func TestFlowValidate(t *testing.T) {
	specs := map[string]*model.AgentSpec{
		"extractor":     {Name: "extractor"},
		"diagnostician": {Name: "diagnostician"},
	}

	t.Run("all steps resolve", func(t *testing.T) {
		flow := model.Flow{"extractor", "diagnostician"}
		gt.NoError(t, flow.Validate(specs))
	})

	t.Run("unknown agent", func(t *testing.T) {
		flow := model.Flow{"extractor", "surgeon"}
		gt.Error(t, flow.Validate(specs))
	})

	t.Run("empty flow", func(t *testing.T) {
		gt.Error(t, model.Flow{}.Validate(specs))
	})
}

func TestAgentSpecValidate(t *testing.T) {
	valid := model.AgentSpec{
		Name:         "extractor",
		SystemPrompt: "You extract clinical data.",
		Model:        "gemini",
		MaxLoops:     1,
		OutputFormat: model.OutputFormatText,
	}
	gt.NoError(t, valid.Validate())

	cases := map[string]func(s *model.AgentSpec){
		"empty name":     func(s *model.AgentSpec) { s.Name = "" },
		"empty prompt":   func(s *model.AgentSpec) { s.SystemPrompt = "" },
		"empty model":    func(s *model.AgentSpec) { s.Model = "" },
		"zero max_loops": func(s *model.AgentSpec) { s.MaxLoops = 0 },
		"bad format":     func(s *model.AgentSpec) { s.OutputFormat = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			spec := valid
			mutate(&spec)
			gt.Error(t, spec.Validate())
		})
	}
}

func TestNewDocumentID(t *testing.T) {
	a := model.NewDocumentID("Patient has hypertension")
	b := model.NewDocumentID("Patient has hypertension")
	c := model.NewDocumentID("Patient has diabetes")

	gt.Equal(t, a, b)
	gt.V(t, a == c).Equal(false)
	gt.V(t, len(a)).Equal(64)
}
