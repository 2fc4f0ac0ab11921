// Package main provides the operion-analyzer command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

const serviceName = "operion-analyzer"

func main() {
	err := NewRootCommand().Run(context.Background(), os.Args)
	if err != nil {
		if !errors.Is(err, ErrInvalidWorkflows) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}

		os.Exit(1)
	}
}

func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Statically analyze workflow graphs and their data types",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "specs",
				Usage:   "Path to a node data spec file or directory",
				Sources: cli.EnvVars("NODE_SPECS_PATH"),
			},
			&cli.StringFlag{
				Name:    "cache-url",
				Usage:   "Analysis cache (memory, redis://host:port/db); empty disables caching",
				Sources: cli.EnvVars("CACHE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (none, gochannel, kafka)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export traces with the OTLP HTTP exporter",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Commands: []*cli.Command{
			NewAnalyzeCommand(),
			NewServeCommand(),
			NewNodeTypesCommand(),
		},
	}
}
