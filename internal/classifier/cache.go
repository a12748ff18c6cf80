package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"vizsynth/internal/roles"
)

// Cache stores classifier answers keyed by CacheKey.
type Cache interface {
	GetClassification(ctx context.Context, key string) (roles.SignalMap, bool, error)
	PutClassification(ctx context.Context, key string, signals roles.SignalMap) error
}

// Cached serves repeated requests from a Cache. Failed classifications are
// never stored.
type Cached struct {
	inner roles.Classifier
	cache Cache
	name  string
}

func NewCached(inner roles.Classifier, cache Cache, name string) *Cached {
	return &Cached{inner: inner, cache: cache, name: name}
}

func (c *Cached) Classify(ctx context.Context, fieldNames, hierarchyHints []string) (roles.SignalMap, error) {
	key := CacheKey(c.name, fieldNames, hierarchyHints)
	if signals, ok, err := c.cache.GetClassification(ctx, key); err == nil && ok {
		return signals, nil
	}

	signals, err := c.inner.Classify(ctx, fieldNames, hierarchyHints)
	if err != nil {
		return nil, err
	}
	// A write failure still returns the fresh answer.
	_ = c.cache.PutClassification(ctx, key, signals)
	return signals, nil
}

// CacheKey hashes the classifier identity with the ordered inputs.
func CacheKey(name string, fieldNames, hierarchyHints []string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(fieldNames, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(hierarchyHints, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}
