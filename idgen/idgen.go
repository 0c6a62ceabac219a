// Package idgen provides pluggable ID generation. Builds are tagged with a
// Prefixed UUIDv7 so log lines from one run can be correlated.
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable, so build IDs order the same way builds ran.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is UUIDv7.
var Default Generator = UUIDv7()

// BuildID produces "bld_<uuidv7>".
var BuildID Generator = Prefixed("bld_", Default)

// New produces an ID using the Default generator.
func New() string {
	return Default()
}
