package element

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces element identifiers. A generator must never return
// the same identifier twice.
type Generator func() string

// UUIDGenerator returns a Generator producing prefixed RFC 9562 UUIDv7 strings.
func UUIDGenerator(prefix string) Generator {
	return func() string {
		return prefix + uuid.Must(uuid.NewV7()).String()
	}
}

// SequenceGenerator returns a Generator producing prefix1, prefix2, …
// It is safe for concurrent use.
func SequenceGenerator(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}

var (
	genMutex   sync.RWMutex
	defaultGen = UUIDGenerator("el_")
)

// SetDefaultGenerator replaces the package default generator and returns the
// previous one, which allows tests to restore it.
func SetDefaultGenerator(gen Generator) Generator {
	genMutex.Lock()
	defer genMutex.Unlock()
	old := defaultGen
	if gen != nil {
		defaultGen = gen
	}
	return old
}

// NewID returns a fresh identifier from the default generator.
func NewID() string {
	genMutex.RLock()
	gen := defaultGen
	genMutex.RUnlock()
	return gen()
}

// OrDefault returns gen, or the package default if gen is nil.
func OrDefault(gen Generator) Generator {
	if gen != nil {
		return gen
	}
	return NewID
}
