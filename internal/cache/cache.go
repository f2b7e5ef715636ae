// Package cache provides the embedding cache: chunk and question vectors
// are expensive to recompute, so they are keyed by a hash of their text
// and held in memory with an optional disk layer.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for an embedding input text. The model name
// is part of the key: the same text embeds differently per model.
func Key(embeddingModel, text string) string {
	hash := sha256.Sum256([]byte(embeddingModel + "\x00" + text))
	return "claimlens:emb:v1:" + hex.EncodeToString(hash[:])
}
