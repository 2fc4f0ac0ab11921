package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var (
	ErrInvalidWorkflows = errors.New("one or more workflows are invalid")
	ErrNoWorkflowFiles  = errors.New("no workflow files given")
	ErrUnknownFormat    = errors.New("unknown output format")
)

// fileReport is one analyzed file in json output.
type fileReport struct {
	File   string                 `json:"file"`
	Report *models.AnalysisReport `json:"report,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func NewAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze workflow documents; use - to read from stdin",
		ArgsUsage: "<workflow.json>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (text, json)",
				Value: "text",
			},
			&cli.IntFlag{
				Name:  "max-paths",
				Usage: "Maximum number of execution paths to enumerate (0 for unlimited)",
				Value: services.DefaultMaxPaths,
			},
			&cli.BoolFlag{
				Name:  "no-rules",
				Usage: "Skip the rule checkers",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			files := command.Args().Slice()
			if len(files) == 0 {
				return ErrNoWorkflowFiles
			}

			format := command.String("format")
			if format != "text" && format != "json" {
				return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
			}

			opts := []services.Option{services.WithMaxPaths(command.Int("max-paths"))}
			if command.Bool("no-rules") {
				opts = append(opts, services.WithRules())
			}

			env, err := newEnvironment(ctx, command, "analyze", opts...)
			if err != nil {
				return err
			}
			defer env.close(ctx)

			out := command.Root().Writer
			if out == nil {
				out = os.Stdout
			}

			invalid := 0

			for _, file := range files {
				result := analyzeFile(ctx, env.analysis, command.Root().Reader, file)
				if result.Report == nil || !result.Report.Valid {
					invalid++
				}

				if err := writeReport(out, format, result); err != nil {
					return err
				}
			}

			env.logger.DebugContext(ctx, "Analysis finished", "files", len(files), "invalid", invalid)

			if invalid > 0 {
				return ErrInvalidWorkflows
			}

			return nil
		},
	}
}

func analyzeFile(ctx context.Context, analysis *services.Analysis, stdin io.Reader, file string) fileReport {
	data, err := readWorkflow(stdin, file)
	if err != nil {
		return fileReport{File: file, Error: err.Error()}
	}

	report, err := analysis.AnalyzeJSON(ctx, data)
	if err != nil {
		return fileReport{File: file, Error: err.Error()}
	}

	return fileReport{File: file, Report: report}
}

func readWorkflow(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}

		return io.ReadAll(stdin)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}

	return data, nil
}

func writeReport(w io.Writer, format string, result fileReport) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	}

	return writeText(w, result)
}

func writeText(w io.Writer, result fileReport) error {
	var b strings.Builder

	if result.Report == nil {
		fmt.Fprintf(&b, "%s: error: %s\n", result.File, result.Error)

		_, err := io.WriteString(w, b.String())

		return err
	}

	report := result.Report

	status := "valid"
	if !report.Valid {
		status = "invalid"
	}

	fmt.Fprintf(&b, "%s: %s (%d errors, %d warnings)\n",
		result.File, status, len(report.Errors()), len(report.Warnings()))
	fmt.Fprintf(&b, "  entry points: %s\n", list(report.EntryPoints))
	fmt.Fprintf(&b, "  exit points:  %s\n", list(report.ExitPoints))
	fmt.Fprintf(&b, "  max depth:    %d\n", report.MaxDepth)
	fmt.Fprintf(&b, "  paths:        %d (%d invalid)\n", len(report.ConnectionPaths), invalidPaths(report))

	if len(report.Findings) > 0 {
		b.WriteString("  findings:\n")

		for _, finding := range report.Findings {
			fmt.Fprintf(&b, "    [%s] %s", finding.Severity, finding.Kind)

			if finding.NodeID != "" {
				fmt.Fprintf(&b, " node=%s", finding.NodeID)
			}

			if finding.ConnectionID != "" {
				fmt.Fprintf(&b, " connection=%s", finding.ConnectionID)
			}

			fmt.Fprintf(&b, ": %s\n", finding.Message)
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("  recommendations:\n")

		for _, recommendation := range report.Recommendations {
			fmt.Fprintf(&b, "    - %s\n", recommendation)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func list(values []string) string {
	if len(values) == 0 {
		return "-"
	}

	return strings.Join(values, ", ")
}

func invalidPaths(report *models.AnalysisReport) int {
	count := 0

	for _, path := range report.ConnectionPaths {
		if !path.Valid {
			count++
		}
	}

	return count
}
