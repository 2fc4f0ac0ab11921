package models

import "fmt"

// Connection is a single directed edge between two node ports.
type Connection struct {
	SourceNodeID string `json:"source_node_id"`
	OutputPort   string `json:"output_port"`
	OutputIndex  int    `json:"output_index"`
	TargetNodeID string `json:"target_node_id"`
	InputPort    string `json:"input_port"`
	InputIndex   int    `json:"input_index"`
}

// ID returns a stable identifier: "{src}:{port}[{idx}]->{dst}:{port}[{idx}]".
func (c Connection) ID() string {
	return fmt.Sprintf("%s[%d]->%s[%d]",
		MakePortID(c.SourceNodeID, c.OutputPort), c.OutputIndex,
		MakePortID(c.TargetNodeID, c.InputPort), c.InputIndex,
	)
}

// String implements fmt.Stringer.
func (c Connection) String() string {
	return c.ID()
}
