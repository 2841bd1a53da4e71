package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func queryCommand() *cli.Command {
	var (
		cfg   config
		query string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Query text",
			Sources:     cli.EnvVars("CONSILIUM_QUERY"),
			Destination: &query,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "query",
		Usage: "Search the retrieval memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			mem, err := cfg.newMemory(ctx)
			if err != nil {
				return err
			}

			matches, err := mem.Query(ctx, query, memory.QueryOptions{
				TopK:           int(cfg.topK),
				ScoreThreshold: cfg.threshold,
			})
			if err != nil {
				return err
			}

			printMatches(c, matches)
			return nil
		},
	}
}

func printMatches(c *cli.Command, matches []*model.Match) {
	w := c.Root().Writer

	if len(matches) == 0 {
		fmt.Fprintf(w, "No matching documents\n")
		return
	}

	fmt.Fprintf(w, "Found %d documents:\n\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(w, "%d. %s (score: %.4f)\n", i+1, m.ID, m.Score)
		fmt.Fprintf(w, "   %s\n\n", headline(m.Text()))
	}
}

// headline returns the first line of text, truncated for display.
func headline(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return text
}
