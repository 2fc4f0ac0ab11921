package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func NewNodeTypesCommand() *cli.Command {
	return &cli.Command{
		Name:    "node-types",
		Aliases: []string{"nt"},
		Usage:   "List the registered node data specs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (text, json)",
				Value: "text",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			env, err := newEnvironment(ctx, command, "node-types")
			if err != nil {
				return err
			}
			defer env.close(ctx)

			out := command.Root().Writer
			if out == nil {
				out = os.Stdout
			}

			specs := env.registry.Specs()

			switch command.String("format") {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(specs)
			case "text":
				for _, spec := range specs {
					if _, err := fmt.Fprintln(out, describeSpec(spec)); err != nil {
						return err
					}
				}

				return nil
			default:
				return fmt.Errorf("%w: %s", ErrUnknownFormat, command.String("format"))
			}
		},
	}
}

// describeSpec renders a spec as "type [trigger] in(port:type,...) out(port:type,...)".
func describeSpec(spec models.NodeDataSpec) string {
	parts := []string{spec.NodeType}

	if spec.Trigger {
		parts = append(parts, "[trigger]")
	}

	inputs := make([]string, 0, len(spec.Inputs))
	for port, input := range spec.Inputs {
		entry := port + ":" + string(input.Type)
		if input.Required {
			entry += "!"
		}

		inputs = append(inputs, entry)
	}

	outputs := make([]string, 0, len(spec.Outputs))
	for port, output := range spec.Outputs {
		outputs = append(outputs, port+":"+string(output.Type))
	}

	slices.Sort(inputs)
	slices.Sort(outputs)

	parts = append(parts,
		"in("+strings.Join(inputs, ",")+")",
		"out("+strings.Join(outputs, ",")+")",
	)

	return strings.Join(parts, " ")
}
