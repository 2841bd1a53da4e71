package cli

import (
	"context"
	"fmt"

	"github.com/consilium-med/consilium/pkg/agents"
	"github.com/urfave/cli/v3"
)

func agentsCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "agents",
		Usage: "List the configured agent roster and hand-off flow",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			specs, flow, err := agents.Load(cfg.agentsFile)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Flow: %s\n\n", flow.String())
			for _, spec := range specs {
				fmt.Fprintf(w, "%s (model: %s, max_loops: %d)\n", spec.Name, spec.Model, spec.MaxLoops)
				fmt.Fprintf(w, "  %s\n\n", headline(spec.SystemPrompt))
			}

			return nil
		},
	}
}
