package layer

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique layer identifiers. It must never return the
// same value twice for the lifetime of a store.
type IDGenerator func() string

// UUIDv7 returns a generator of RFC 9562 UUID v7 strings. They are
// time-sortable and globally unique.
func UUIDv7() IDGenerator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every ID produced by gen.
func Prefixed(prefix string, gen IDGenerator) IDGenerator {
	return func() string {
		return prefix + gen()
	}
}

// Sequential returns a generator of prefix1, prefix2, ... Handy for tests
// and deterministic documents.
func Sequential(prefix string) IDGenerator {
	var n atomic.Uint64
	return func() string {
		return prefix + strconv.FormatUint(n.Add(1), 10)
	}
}

// DefaultIDGenerator is used by stores created without WithIDGenerator.
func DefaultIDGenerator() IDGenerator {
	return Prefixed("layer_", UUIDv7())
}
