package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Fingerprint returns the hex encoded sha256 of an uploaded file.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Match reports whether data hashes to the expected fingerprint.
func Match(data []byte, expected string) bool {
	return expected != "" && Fingerprint(data) == expected
}

// Registry remembers which file fingerprints each client has already
// imported, so repeat uploads can be flagged.
type Registry struct {
	mu   sync.Mutex
	seen map[string]map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]map[string]time.Time)}
}

// Seen returns when the fingerprint was first recorded for the scope.
func (r *Registry) Seen(scope, fingerprint string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.seen[scope][fingerprint]
	return at, ok
}

// Record stores the fingerprint for the scope. The first time wins.
func (r *Registry) Record(scope, fingerprint string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.seen[scope]
	if !ok {
		m = make(map[string]time.Time)
		r.seen[scope] = m
	}
	if _, exists := m[fingerprint]; !exists {
		m[fingerprint] = at
	}
}
