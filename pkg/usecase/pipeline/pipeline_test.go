package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/consilium-med/consilium/pkg/usecase/pipeline"
	"github.com/m-mizutani/gt"
)

// echoGenerator tags its input so hand-off order is observable in outputs.
type echoGenerator struct {
	tag   string
	calls []string
	err   error
}

func (g *echoGenerator) Generate(_ context.Context, _ string, input string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.calls = append(g.calls, input)
	return fmt.Sprintf("[%s] %s", g.tag, input), nil
}

type fakeMemory struct {
	matches []*model.Match
	queries []string
}

func (m *fakeMemory) Query(_ context.Context, text string, _ memory.QueryOptions) ([]*model.Match, error) {
	m.queries = append(m.queries, text)
	return m.matches, nil
}

func spec(name, modelRef string) *model.AgentSpec {
	return &model.AgentSpec{
		Name:         name,
		SystemPrompt: "You are " + name + ".",
		Model:        modelRef,
		MaxLoops:     1,
		OutputFormat: model.OutputFormatText,
	}
}

func TestRunHandsOffInOrder(t *testing.T) {
	gen := &echoGenerator{tag: "m"}
	specs := []*model.AgentSpec{spec("first", "m"), spec("second", "m"), spec("third", "m")}
	flow := model.Flow{"first", "second", "third"}

	p, err := pipeline.New(specs, flow, nil, map[string]pipeline.Generator{"m": gen}, pipeline.Options{})
	gt.NoError(t, err)

	report, err := p.Run(context.Background(), "patient data")
	gt.NoError(t, err)

	gt.A(t, report.Steps).Length(3)
	gt.Equal(t, report.Steps[0].Agent, "first")
	gt.Equal(t, report.Steps[1].Agent, "second")
	gt.Equal(t, report.Steps[2].Agent, "third")

	// Each step consumes the previous step's output.
	gt.Equal(t, report.Steps[0].Output, "[m] patient data")
	gt.Equal(t, report.Steps[1].Output, "[m] [m] patient data")
	gt.Equal(t, report.Output, "[m] [m] [m] patient data")
	gt.Equal(t, report.Output, report.Steps[2].Output)
	gt.V(t, report.RunID).NotEqual("")
	gt.Equal(t, report.Flow, "first -> second -> third")
}

func TestRunInjectsRetrievedContext(t *testing.T) {
	gen := &echoGenerator{tag: "m"}
	mem := &fakeMemory{matches: []*model.Match{
		{ID: "doc1", Score: 0.9, Metadata: map[string]any{"text": "Patient has hypertension"}},
	}}

	p, err := pipeline.New(
		[]*model.AgentSpec{spec("solo", "m")},
		model.Flow{"solo"},
		mem,
		map[string]pipeline.Generator{"m": gen},
		pipeline.Options{TopK: 1},
	)
	gt.NoError(t, err)

	report, err := p.Run(context.Background(), "chest pain")
	gt.NoError(t, err)

	gt.A(t, mem.queries).Length(1)
	gt.Equal(t, mem.queries[0], "chest pain")
	gt.Equal(t, report.Steps[0].Retrieved, 1)

	gt.A(t, gen.calls).Length(1)
	gt.S(t, gen.calls[0]).Contains("Relevant documents:")
	gt.S(t, gen.calls[0]).Contains("Patient has hypertension")
	gt.S(t, gen.calls[0]).Contains("chest pain")
}

func TestRunEmptyInput(t *testing.T) {
	p, err := pipeline.New(
		[]*model.AgentSpec{spec("solo", "m")},
		model.Flow{"solo"},
		nil,
		map[string]pipeline.Generator{"m": &echoGenerator{tag: "m"}},
		pipeline.Options{},
	)
	gt.NoError(t, err)

	_, err = p.Run(context.Background(), "  ")
	gt.Error(t, err)
	gt.V(t, errors.Is(err, model.ErrEmptyText)).Equal(true)
}

func TestRunAbortsOnAgentError(t *testing.T) {
	ok := &echoGenerator{tag: "ok"}
	boom := &echoGenerator{tag: "boom", err: errors.New("model unavailable")}

	specs := []*model.AgentSpec{spec("first", "ok"), spec("second", "boom"), spec("third", "ok")}
	p, err := pipeline.New(specs, model.Flow{"first", "second", "third"}, nil,
		map[string]pipeline.Generator{"ok": ok, "boom": boom}, pipeline.Options{})
	gt.NoError(t, err)

	_, err = p.Run(context.Background(), "patient data")
	gt.Error(t, err)

	// Third agent never ran.
	gt.A(t, ok.calls).Length(1)
}

func TestRunMaxLoops(t *testing.T) {
	gen := &echoGenerator{tag: "m"}
	p, err := pipeline.New(
		[]*model.AgentSpec{spec("solo", "m")},
		model.Flow{"solo"},
		nil,
		map[string]pipeline.Generator{"m": gen},
		pipeline.Options{MaxLoops: 2},
	)
	gt.NoError(t, err)

	report, err := p.Run(context.Background(), "x")
	gt.NoError(t, err)
	gt.A(t, report.Steps).Length(2)
	gt.Equal(t, report.Output, "[m] [m] x")
}

func TestRunAgentInnerLoops(t *testing.T) {
	gen := &echoGenerator{tag: "m"}
	s := spec("solo", "m")
	s.MaxLoops = 3

	p, err := pipeline.New([]*model.AgentSpec{s}, model.Flow{"solo"}, nil,
		map[string]pipeline.Generator{"m": gen}, pipeline.Options{})
	gt.NoError(t, err)

	report, err := p.Run(context.Background(), "x")
	gt.NoError(t, err)
	gt.A(t, report.Steps).Length(1)
	gt.Equal(t, report.Output, "[m] [m] [m] x")
}

func TestNewValidation(t *testing.T) {
	gens := map[string]pipeline.Generator{"m": &echoGenerator{tag: "m"}}

	t.Run("unknown agent in flow", func(t *testing.T) {
		_, err := pipeline.New([]*model.AgentSpec{spec("a", "m")}, model.Flow{"b"}, nil, gens, pipeline.Options{})
		gt.Error(t, err)
	})

	t.Run("unbound model reference", func(t *testing.T) {
		_, err := pipeline.New([]*model.AgentSpec{spec("a", "other")}, model.Flow{"a"}, nil, gens, pipeline.Options{})
		gt.Error(t, err)
	})

	t.Run("duplicate agents", func(t *testing.T) {
		_, err := pipeline.New([]*model.AgentSpec{spec("a", "m"), spec("a", "m")}, model.Flow{"a"}, nil, gens, pipeline.Options{})
		gt.Error(t, err)
	})

	t.Run("invalid spec", func(t *testing.T) {
		bad := spec("a", "m")
		bad.SystemPrompt = ""
		_, err := pipeline.New([]*model.AgentSpec{bad}, model.Flow{"a"}, nil, gens, pipeline.Options{})
		gt.Error(t, err)
	})
}
