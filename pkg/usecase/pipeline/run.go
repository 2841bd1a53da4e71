package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/consilium-med/consilium/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Step records one agent execution within a run.
type Step struct {
	Agent     string        `json:"agent"`
	Model     string        `json:"model"`
	Retrieved int           `json:"retrieved"`
	Output    string        `json:"output"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Report is the result of a full pipeline run.
type Report struct {
	RunID     string    `json:"run_id"`
	Input     string    `json:"input"`
	Flow      string    `json:"flow"`
	Steps     []Step    `json:"steps"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// Run passes the input through every agent in flow order. Each step
// retrieves memory context for the current working text, executes the
// agent's prompt and hands the output to the next agent. The first error
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, input string) (*Report, error) {
	if strings.TrimSpace(input) == "" {
		return nil, goerr.Wrap(model.ErrEmptyText, "pipeline input is empty")
	}

	logger := logging.From(ctx)

	report := &Report{
		RunID:     uuid.New().String(),
		Input:     input,
		Flow:      p.flow.String(),
		CreatedAt: time.Now().UTC(),
	}

	current := input
	for loop := 0; loop < p.opts.MaxLoops; loop++ {
		for _, name := range p.flow {
			spec := p.specs[name]
			gen := p.generators[spec.Model]

			matches, err := p.retrieve(ctx, current)
			if err != nil {
				return nil, goerr.Wrap(err, "retrieval failed", goerr.V("agent", name))
			}

			started := time.Now()

			output := current
			for i := 0; i < spec.MaxLoops; i++ {
				output, err = gen.Generate(ctx, spec.SystemPrompt, composeInput(output, matches))
				if err != nil {
					return nil, goerr.Wrap(err, "agent execution failed",
						goerr.V("agent", name), goerr.V("model", spec.Model))
				}
			}

			report.Steps = append(report.Steps, Step{
				Agent:     name,
				Model:     spec.Model,
				Retrieved: len(matches),
				Output:    output,
				Elapsed:   time.Since(started),
			})

			logger.Info("agent completed",
				"run", report.RunID, "agent", name, "retrieved", len(matches))

			current = output
		}
	}

	report.Output = current

	return report, nil
}

func (p *Pipeline) retrieve(ctx context.Context, text string) ([]*model.Match, error) {
	if p.mem == nil {
		return nil, nil
	}
	return p.mem.Query(ctx, text, memory.QueryOptions{
		TopK:           p.opts.TopK,
		ScoreThreshold: p.opts.ScoreThreshold,
	})
}

// composeInput prepends retrieved documents to the working text so every
// agent sees the shared memory context.
func composeInput(text string, matches []*model.Match) string {
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString("Relevant documents:\n")
	for i, m := range matches {
		sb.WriteString("--- document ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(" ---\n")
		sb.WriteString(m.Text())
		sb.WriteString("\n")
	}
	sb.WriteString("\nInput:\n")
	sb.WriteString(text)

	return sb.String()
}
