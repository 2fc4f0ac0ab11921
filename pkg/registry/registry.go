// Package registry provides the node data spec lookup table keyed by node type.
package registry

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/dukex/operion-analyzer/pkg/cache"
	"github.com/dukex/operion-analyzer/pkg/models"
)

// Registry maps node type identifiers to their data specs.
// Lookups never fail: unknown types resolve to a permissive default spec.
type Registry struct {
	logger *slog.Logger
	mu     sync.RWMutex
	specs  map[string]models.NodeDataSpec
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		logger: log,
		specs:  make(map[string]models.NodeDataSpec),
	}
}

// DefaultSpec returns the permissive spec used for unknown node types.
func DefaultSpec(nodeType string) models.NodeDataSpec {
	return models.NodeDataSpec{
		NodeType:    nodeType,
		Description: "Unknown node type; every port accepts and emits any data",
		Permissive:  true,
	}
}

// Register adds or replaces the spec for spec.NodeType.
func (r *Registry) Register(spec models.NodeDataSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.NodeType]; exists {
		r.logger.Debug("Overriding node data spec", "node_type", spec.NodeType)
	}

	r.specs[spec.NodeType] = spec
}

// SpecFor returns the spec for nodeType by exact match, or DefaultSpec.
func (r *Registry) SpecFor(nodeType string) models.NodeDataSpec {
	if spec, ok := r.Lookup(nodeType); ok {
		return spec
	}

	return DefaultSpec(nodeType)
}

// Lookup returns the registered spec for nodeType.
func (r *Registry) Lookup(nodeType string) (models.NodeDataSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[nodeType]

	return spec, ok
}

// Types returns the registered node types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.specs))
	for nodeType := range r.specs {
		types = append(types, nodeType)
	}

	slices.Sort(types)

	return types
}

// Specs returns every registered spec ordered by node type.
func (r *Registry) Specs() []models.NodeDataSpec {
	types := r.Types()

	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]models.NodeDataSpec, 0, len(types))
	for _, nodeType := range types {
		specs = append(specs, r.specs[nodeType])
	}

	return specs
}

// Fingerprint returns a stable hash of the registered table, so cached
// analyses are invalidated when the specs change.
func (r *Registry) Fingerprint() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fingerprint, err := cache.Fingerprint(r.specs)
	if err != nil {
		r.logger.Warn("Failed to fingerprint node data specs", "error", err)

		return ""
	}

	return fingerprint
}

// HealthCheck reports whether the registry has any specs loaded.
func (r *Registry) HealthCheck() (string, bool) {
	count := len(r.Types())
	if count == 0 {
		return "No node data specs registered", false
	}

	return "Node data specs registered", true
}
