// Package testworkflows builds workflow documents for tests.
package testworkflows

import "github.com/dukex/operion-analyzer/pkg/models"

// DefaultNodeType is used for nodes added without an explicit type.
const DefaultNodeType = "test.unknown"

// Builder assembles a models.Workflow fluently.
type Builder struct {
	workflow *models.Workflow
}

// New starts an empty workflow.
func New() *Builder {
	return &Builder{
		workflow: &models.Workflow{
			Nodes:       make([]*models.Node, 0),
			Connections: models.Connections{},
		},
	}
}

// Node adds a node with the given type.
func (b *Builder) Node(id, nodeType string) *Builder {
	b.workflow.Nodes = append(b.workflow.Nodes, &models.Node{ID: id, Type: nodeType})

	return b
}

// Nodes adds nodes of DefaultNodeType.
func (b *Builder) Nodes(ids ...string) *Builder {
	for _, id := range ids {
		b.Node(id, DefaultNodeType)
	}

	return b
}

// Params sets the parameters of the last added node.
func (b *Builder) Params(params map[string]any) *Builder {
	b.last().Parameters = params

	return b
}

// Transform sets a transformation template on an output port of the last added node.
func (b *Builder) Transform(port, template string) *Builder {
	node := b.last()
	if node.Transforms == nil {
		node.Transforms = make(map[string]string)
	}

	node.Transforms[port] = template

	return b
}

// Connect links source:main to target:main.
func (b *Builder) Connect(source, target string) *Builder {
	return b.ConnectPorts(source, "main", target, "main")
}

// ConnectPorts links source:outputPort to target:inputPort.
func (b *Builder) ConnectPorts(source, outputPort, target, inputPort string) *Builder {
	ports, ok := b.workflow.Connections[source]
	if !ok {
		ports = make(map[string]models.ConnectionTargets)
		b.workflow.Connections[source] = ports
	}

	ports[outputPort] = append(ports[outputPort], models.ConnectionTarget{Node: target, Type: inputPort})

	return b
}

// Chain adds nodes of DefaultNodeType linked in sequence.
func (b *Builder) Chain(ids ...string) *Builder {
	for i, id := range ids {
		if !b.has(id) {
			b.Nodes(id)
		}

		if i > 0 {
			b.Connect(ids[i-1], id)
		}
	}

	return b
}

// Build returns the workflow.
func (b *Builder) Build() *models.Workflow {
	return b.workflow
}

func (b *Builder) last() *models.Node {
	return b.workflow.Nodes[len(b.workflow.Nodes)-1]
}

func (b *Builder) has(id string) bool {
	for _, node := range b.workflow.Nodes {
		if node.ID == id {
			return true
		}
	}

	return false
}

// BranchAndMerge returns trigger -> http1 -> condition -> {http2, errorHandler}.
func BranchAndMerge() *models.Workflow {
	return New().
		Chain("trigger", "http1", "condition", "http2").
		Nodes("errorHandler").
		Connect("condition", "errorHandler").
		Build()
}
