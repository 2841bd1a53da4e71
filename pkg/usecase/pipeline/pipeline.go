// Package pipeline runs a fixed, ordered hand-off of prompt agents over one
// input text. Each agent receives the previous agent's output together with
// documents retrieved from the shared memory.
package pipeline

import (
	"context"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
)

// Generator executes a system prompt plus input text against a language
// model and returns the textual output. Model adapters satisfy this.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, input string) (string, error)
}

// Memory is the retrieval capability the pipeline consumes; the document
// memory use case satisfies it.
type Memory interface {
	Query(ctx context.Context, text string, opts memory.QueryOptions) ([]*model.Match, error)
}

// Options configures a pipeline run.
type Options struct {
	TopK           int     // documents retrieved per hand-off step
	ScoreThreshold float64 // minimum similarity for retrieved context
	MaxLoops       int     // times the whole flow is repeated; defaults to 1
}

// Pipeline executes agents in flow order with shared retrieval memory.
type Pipeline struct {
	specs      map[string]*model.AgentSpec
	flow       model.Flow
	mem        Memory
	generators map[string]Generator
	opts       Options
}

// New validates the agent roster, the flow and the model bindings, and
// returns a ready-to-run pipeline. mem may be nil to run without retrieval.
func New(specs []*model.AgentSpec, flow model.Flow, mem Memory, generators map[string]Generator, opts Options) (*Pipeline, error) {
	index := make(map[string]*model.AgentSpec, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[spec.Name]; exists {
			return nil, goerr.New("duplicate agent name", goerr.V("agent", spec.Name))
		}
		index[spec.Name] = spec
	}

	if err := flow.Validate(index); err != nil {
		return nil, err
	}

	for _, spec := range index {
		if _, ok := generators[spec.Model]; !ok {
			return nil, goerr.New("no generator for model reference",
				goerr.V("agent", spec.Name), goerr.V("model", spec.Model))
		}
	}

	if opts.MaxLoops < 1 {
		opts.MaxLoops = 1
	}

	return &Pipeline{
		specs:      index,
		flow:       flow,
		mem:        mem,
		generators: generators,
		opts:       opts,
	}, nil
}

// Flow returns the hand-off order.
func (p *Pipeline) Flow() model.Flow {
	return p.flow
}
