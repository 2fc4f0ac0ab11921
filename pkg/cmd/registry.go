// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/operion-analyzer/pkg/registry"
)

// NewRegistry returns a registry holding the built-in node data specs, overridden
// by the specs found at specsPath when it is set.
func NewRegistry(log *slog.Logger, specsPath string) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultSpecs()

	if specsPath == "" {
		return reg, nil
	}

	count, err := reg.LoadSpecsPath(specsPath)
	if err != nil {
		return nil, err
	}

	log.Info("Loaded node data specs", "path", specsPath, "count", count)

	return reg, nil
}
