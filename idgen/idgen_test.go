package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Format(t *testing.T) {
	gen := UUIDv7()
	id := gen()
	// UUID format: 8-4-4-4-12
	parts := strings.Split(id, "-")
	if len(parts) != 5 {
		t.Fatalf("UUIDv7: expected 5 parts, got %d in %q", len(parts), id)
	}
	if len(id) != 36 {
		t.Fatalf("UUIDv7: expected length 36, got %d", len(id))
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	prev := gen()
	for i := 0; i < 100; i++ {
		id := gen()
		if id <= prev {
			t.Fatalf("UUIDv7: %q not after %q", id, prev)
		}
		prev = id
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("x_", func() string { return "abc" })
	if id := gen(); id != "x_abc" {
		t.Fatalf("Prefixed: got %q", id)
	}
}

func TestBuildID(t *testing.T) {
	id := BuildID()
	if !strings.HasPrefix(id, "bld_") {
		t.Fatalf("BuildID: expected prefix 'bld_', got %q", id)
	}
	if len(id) != 4+36 {
		t.Fatalf("BuildID: expected length 40, got %d", len(id))
	}
}
