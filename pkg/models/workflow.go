// Package models defines the workflow document and analysis report models.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMalformedWorkflow indicates the document is not a workflow at all (not an object, or no node list).
	ErrMalformedWorkflow = errors.New("malformed workflow document")

	// ErrInvalidWorkflow indicates a node list that fails struct validation.
	ErrInvalidWorkflow = errors.New("invalid workflow document")
)

// DefaultPort is the port name assumed when a connection target omits its input port.
const DefaultPort = "main"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Workflow is the caller-owned workflow document consumed by the analyzer.
type Workflow struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name,omitempty"`
	Nodes       []*Node     `json:"nodes"                 validate:"dive,required"`
	Connections Connections `json:"connections,omitempty"`
}

// Node represents a node instance in a workflow.
type Node struct {
	ID          string            `json:"id"                   validate:"required"`
	Name        string            `json:"name,omitempty"`
	Type        string            `json:"type"                 validate:"required"`
	TypeVersion float64           `json:"typeVersion,omitempty"`
	Parameters  map[string]any    `json:"parameters,omitempty"`
	Transforms  map[string]string `json:"transforms,omitempty"` // output port -> template
}

// ParseWorkflow decodes and validates a workflow document.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedWorkflow, err)
	}

	nodes, ok := raw["nodes"]
	if !ok || len(bytes.TrimSpace(nodes)) == 0 || bytes.TrimSpace(nodes)[0] != '[' {
		return nil, fmt.Errorf("%w: nodes must be a list", ErrMalformedWorkflow)
	}

	var workflow Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedWorkflow, err)
	}

	if err := workflow.Validate(); err != nil {
		return nil, err
	}

	return &workflow, nil
}

// Validate checks the node list with struct validation.
func (w *Workflow) Validate() error {
	if w == nil || w.Nodes == nil {
		return fmt.Errorf("%w: nodes must be a list", ErrMalformedWorkflow)
	}

	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
	}

	return nil
}

// Connections maps source node reference -> output port -> targets.
type Connections map[string]map[string]ConnectionTargets

// ConnectionTarget is one entry in a port's target list.
type ConnectionTarget struct {
	Node        string `json:"node"`
	Type        string `json:"type"`
	Index       int    `json:"index"`
	OutputIndex int    `json:"-"`
}

// ConnectionTargets accepts both the flat list shape and the nested per-output-index shape.
type ConnectionTargets []ConnectionTarget

// UnmarshalJSON decodes `[{...}]` or `[[{...}], [{...}]]`.
func (t *ConnectionTargets) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	targets := make(ConnectionTargets, 0, len(items))

	for outputIndex, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}

		if trimmed[0] == '[' {
			var group []ConnectionTarget
			if err := json.Unmarshal(trimmed, &group); err != nil {
				return err
			}

			for _, target := range group {
				target.OutputIndex = outputIndex
				targets = append(targets, target)
			}

			continue
		}

		var target ConnectionTarget
		if err := json.Unmarshal(trimmed, &target); err != nil {
			return err
		}

		targets = append(targets, target)
	}

	*t = targets

	return nil
}

// Flatten returns the connections as edges in a deterministic order: sources in the
// given node order (unknown sources sorted after them), output ports sorted, targets
// in list order. Node references are resolved with resolve; unresolved references
// are kept verbatim.
func (c Connections) Flatten(nodeOrder []string, resolve func(ref string) string) []Connection {
	sources := make([]string, 0, len(c))
	seen := make(map[string]bool, len(c))

	for _, ref := range nodeOrder {
		if _, ok := c[ref]; ok && !seen[ref] {
			sources = append(sources, ref)
			seen[ref] = true
		}
	}

	rest := make([]string, 0)

	for ref := range c {
		if !seen[ref] {
			rest = append(rest, ref)
		}
	}

	slices.Sort(rest)
	sources = append(sources, rest...)

	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}

	edges := make([]Connection, 0)

	for _, sourceRef := range sources {
		ports := c[sourceRef]

		names := make([]string, 0, len(ports))
		for port := range ports {
			names = append(names, port)
		}

		slices.Sort(names)

		for _, port := range names {
			for _, target := range ports[port] {
				inputPort := target.Type
				if inputPort == "" {
					inputPort = DefaultPort
				}

				edges = append(edges, Connection{
					SourceNodeID: resolve(sourceRef),
					OutputPort:   port,
					OutputIndex:  target.OutputIndex,
					TargetNodeID: resolve(target.Node),
					InputPort:    inputPort,
					InputIndex:   target.Index,
				})
			}
		}
	}

	return edges
}
