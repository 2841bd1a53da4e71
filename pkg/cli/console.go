package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/consilium-med/consilium/pkg/usecase/pipeline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func consoleCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "console",
		Usage: "Interactive console for queries and pipeline runs",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			pipe, err := cfg.newPipeline(ctx, 1)
			if err != nil {
				return err
			}
			mem, err := cfg.newMemory(ctx)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "consilium> ",
				InterruptPrompt: "^C",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to open console")
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintf(w, "Commands: run <patient data> | query <text> | ingest <dir> | exit\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "console read failed")
				}

				if done := dispatch(ctx, c, pipe, mem, &cfg, strings.TrimSpace(line)); done {
					break
				}
			}

			return nil
		},
	}
}

// dispatch handles one console line. Returns true when the session ends.
func dispatch(ctx context.Context, c *cli.Command, pipe *pipeline.Pipeline, mem *memory.UseCase, cfg *config, line string) bool {
	w := c.Root().Writer

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return false

	case "exit", "quit":
		return true

	case "run":
		report, err := pipe.Run(ctx, rest)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		printReport(c, report)

	case "query":
		matches, err := mem.Query(ctx, rest, memory.QueryOptions{
			TopK:           int(cfg.topK),
			ScoreThreshold: cfg.threshold,
		})
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		printMatches(c, matches)

	case "ingest":
		ids, err := mem.AddFolder(ctx, rest, memory.FolderOptions{})
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "indexed %d documents\n", len(ids))

	default:
		fmt.Fprintf(w, "unknown command %q (run, query, ingest, exit)\n", cmd)
	}

	return false
}
