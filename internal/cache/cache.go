// Package cache remembers link probe outcomes between runs so repeated QA
// passes over the same campaign do not hammer the same landing pages.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/ppiankov/emailqa/internal/model"
)

const keyPrefix = "emailqa:probe:v1:"

// Store is a byte-oriented cache with per-entry expiry
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes a probed URL. The fragment never reaches the server so it is
// dropped before hashing.
func Key(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	hash := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// Probes stores model.ProbeResult values on top of a Store
type Probes struct {
	store Store
	ttl   time.Duration
}

// NewProbes wraps store. ttl applies to every entry written.
func NewProbes(store Store, ttl time.Duration) *Probes {
	return &Probes{store: store, ttl: ttl}
}

// Get returns a cached probe for url
func (p *Probes) Get(url string) (model.ProbeResult, bool) {
	data, ok := p.store.Get(Key(url))
	if !ok {
		return model.ProbeResult{}, false
	}
	var result model.ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = p.store.Delete(Key(url))
		return model.ProbeResult{}, false
	}
	return result, true
}

// Put caches a probe under url. Skipped probes are not worth remembering.
func (p *Probes) Put(url string, result model.ProbeResult) error {
	if result.Skipped {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return p.store.Set(Key(url), data, p.ttl)
}
