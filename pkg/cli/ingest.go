package cli

import (
	"context"
	"fmt"

	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg        config
		dir        string
		extensions []string
		recursive  bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Usage:       "Directory containing documents to index",
			Sources:     cli.EnvVars("CONSILIUM_DOCS_DIR"),
			Destination: &dir,
			Required:    true,
		},
		&cli.StringSliceFlag{
			Name:        "ext",
			Usage:       "File extensions to ingest",
			Sources:     cli.EnvVars("CONSILIUM_DOCS_EXT"),
			Destination: &extensions,
		},
		&cli.BoolFlag{
			Name:        "recursive",
			Aliases:     []string{"r"},
			Usage:       "Descend into subdirectories",
			Sources:     cli.EnvVars("CONSILIUM_DOCS_RECURSIVE"),
			Destination: &recursive,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Index a folder of documents into the retrieval memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			mem, err := cfg.newMemory(ctx)
			if err != nil {
				return err
			}

			ids, err := mem.AddFolder(ctx, dir, memory.FolderOptions{
				Extensions: extensions,
				Recursive:  recursive,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Indexed %d documents:\n", len(ids))
			for _, id := range ids {
				fmt.Fprintf(c.Root().Writer, "  %s\n", id)
			}

			return nil
		},
	}
}
