package cli

import (
	"context"
	"fmt"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove documents from the retrieval memory",
		ArgsUsage: "<document-id> [<document-id>...]",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			args := c.Args().Slice()
			if len(args) == 0 {
				return goerr.New("at least one document ID is required")
			}

			index, err := cfg.newIndex(ctx)
			if err != nil {
				return err
			}

			ids := make([]model.DocumentID, 0, len(args))
			for _, arg := range args {
				ids = append(ids, model.DocumentID(arg))
			}

			if err := index.Delete(ctx, ids...); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Deleted %d documents\n", len(ids))
			return nil
		},
	}
}
