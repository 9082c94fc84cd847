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

// Key generates a cache key from an arbitrary string (URL, query, text)
func Key(s string) string {
	hash := sha256.Sum256([]byte(s))
	return "claimscope:v1:" + hex.EncodeToString(hash[:])
}
