package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "consilium",
		Usage: "Multi-agent medical analysis pipeline with document retrieval",
		Commands: []*cli.Command{
			runCommand(),
			ingestCommand(),
			queryCommand(),
			deleteCommand(),
			agentsCommand(),
			consoleCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
