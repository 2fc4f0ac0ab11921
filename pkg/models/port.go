// Package models defines port-based data type descriptors for node connections.
package models

// DataType is the declared semantic type of data flowing through a port.
type DataType string

const (
	DataTypeJSON      DataType = "json"
	DataTypeString    DataType = "string"
	DataTypeNumber    DataType = "number"
	DataTypeBoolean   DataType = "boolean"
	DataTypeArray     DataType = "array"
	DataTypeObject    DataType = "object"
	DataTypeBinary    DataType = "binary"
	DataTypeNull      DataType = "null"
	DataTypeUndefined DataType = "undefined"
	DataTypeAny       DataType = "any"
)

// DataTypes lists every known data type.
var DataTypes = []DataType{
	DataTypeJSON, DataTypeString, DataTypeNumber, DataTypeBoolean, DataTypeArray,
	DataTypeObject, DataTypeBinary, DataTypeNull, DataTypeUndefined, DataTypeAny,
}

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	for _, known := range DataTypes {
		if t == known {
			return true
		}
	}

	return false
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// InputPortSpec declares the data accepted on a named input port.
type InputPortSpec struct {
	Type     DataType `json:"type"     validate:"required"`
	Required bool     `json:"required"`
}

// OutputPortSpec declares the data produced on a named output port.
type OutputPortSpec struct {
	Type       DataType `json:"type"                validate:"required"`
	Guaranteed bool     `json:"guaranteed"`
	Transform  string   `json:"transform,omitempty"` // Optional template shaping the emitted data
}

// NodeDataSpec is the data type descriptor of a node type.
type NodeDataSpec struct {
	NodeType    string                    `json:"node_type"             validate:"required"`
	Description string                    `json:"description,omitempty"`
	Trigger     bool                      `json:"trigger,omitempty"`
	Inputs      map[string]InputPortSpec  `json:"inputs,omitempty"`
	Outputs     map[string]OutputPortSpec `json:"outputs,omitempty"`
	Parameters  map[string]any            `json:"parameters,omitempty"` // JSON schema for node parameters
	// Permissive specs answer every port with an optional, guaranteed `any`.
	Permissive bool `json:"permissive,omitempty"`
}

// Input returns the declared spec for an input port.
func (s NodeDataSpec) Input(port string) (InputPortSpec, bool) {
	if s.Permissive {
		return InputPortSpec{Type: DataTypeAny}, true
	}

	spec, ok := s.Inputs[port]

	return spec, ok
}

// Output returns the declared spec for an output port.
func (s NodeDataSpec) Output(port string) (OutputPortSpec, bool) {
	if s.Permissive {
		return OutputPortSpec{Type: DataTypeAny, Guaranteed: true}, true
	}

	spec, ok := s.Outputs[port]

	return spec, ok
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}
