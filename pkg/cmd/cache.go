package cmd

import (
	"log/slog"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/cache"
)

// NewCache returns the analysis cache named by url, or nil when url is empty.
func NewCache(url string, logger *slog.Logger) (cache.Cache, error) {
	c, err := cache.New(url)
	if err != nil {
		return nil, err
	}

	if c != nil {
		logger.Info("Analysis cache enabled", "backend", cacheBackend(url))
	}

	return c, nil
}

func cacheBackend(url string) string {
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		return scheme
	}

	return url
}
