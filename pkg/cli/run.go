package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/consilium-med/consilium/pkg/usecase/pipeline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	var (
		cfg       config
		input     string
		inputFile string
		bucket    string
		maxLoops  int64
		asJSON    bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Patient data to analyze",
			Sources:     cli.EnvVars("CONSILIUM_INPUT"),
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "input-file",
			Aliases:     []string{"f"},
			Usage:       "Path to a file containing the patient data",
			Sources:     cli.EnvVars("CONSILIUM_INPUT_FILE"),
			Destination: &inputFile,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket to archive the run report",
			Sources:     cli.EnvVars("CONSILIUM_REPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.IntFlag{
			Name:        "max-loops",
			Usage:       "Times the whole agent flow is repeated",
			Value:       1,
			Sources:     cli.EnvVars("CONSILIUM_MAX_LOOPS"),
			Destination: &maxLoops,
		},
		&cli.BoolFlag{
			Name:        "json",
			Aliases:     []string{"j"},
			Usage:       "Print the full report as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "run",
		Usage: "Run the agent pipeline on patient data",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			text, err := resolveInput(input, inputFile)
			if err != nil {
				return err
			}

			pipe, err := cfg.newPipeline(ctx, int(maxLoops))
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(os.Stderr))
			sp.Suffix = " running agents..."
			sp.Start()
			report, err := pipe.Run(ctx, text)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "pipeline run failed")
			}

			if asJSON {
				enc := json.NewEncoder(c.Root().Writer)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return goerr.Wrap(err, "failed to encode report")
				}
			} else {
				printReport(c, report)
			}

			if bucket != "" {
				if err := archiveReport(ctx, &cfg, bucket, report); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Report archived as reports/%s.json\n", report.RunID)
			}

			return nil
		},
	}
}

func resolveInput(input, inputFile string) (string, error) {
	if inputFile != "" {
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read input file", goerr.V("path", inputFile))
		}
		return string(raw), nil
	}
	if input == "" {
		return "", goerr.New("either --input or --input-file is required")
	}
	return input, nil
}

func printReport(c *cli.Command, report *pipeline.Report) {
	w := c.Root().Writer
	fmt.Fprintf(w, "Run %s\n", report.RunID)
	fmt.Fprintf(w, "Flow: %s\n\n", report.Flow)

	for i, step := range report.Steps {
		fmt.Fprintf(w, "%d. %s (%s, %d documents, %s)\n",
			i+1, step.Agent, step.Model, step.Retrieved, step.Elapsed.Round(time.Millisecond))
		fmt.Fprintf(w, "%s\n\n", step.Output)
	}

	fmt.Fprintf(w, "=== Final output ===\n%s\n", report.Output)
}

func archiveReport(ctx context.Context, cfg *config, bucket string, report *pipeline.Report) error {
	storage, err := cfg.newStorage(ctx, bucket)
	if err != nil {
		return err
	}

	w, err := storage.Put(ctx, report.RunID+".json")
	if err != nil {
		return goerr.Wrap(err, "failed to open report object", goerr.V("run", report.RunID))
	}

	if err := json.NewEncoder(w).Encode(report); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write report", goerr.V("run", report.RunID))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize report", goerr.V("run", report.RunID))
	}

	return nil
}
