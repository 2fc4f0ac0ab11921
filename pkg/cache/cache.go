// Package cache provides the injectable result cache keyed by workflow fingerprint.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidURL indicates a cache URL that names no supported backend.
var ErrInvalidURL = errors.New("invalid cache url")

// Cache stores opaque values until they expire.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key; a ttl <= 0 stores it without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases the backend.
	Close() error
}

// Fingerprint returns the hex sha256 of the canonical JSON encoding of v.
// encoding/json sorts map keys, which makes the encoding stable for maps.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}
