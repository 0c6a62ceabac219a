package horosafe

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafePath(t *testing.T) {
	tests := []struct {
		base, input string
		wantErr     bool
	}{
		{"/srv/deploy", "style.css", false},
		{"/srv/deploy", "img/logo.png", false},
		{"/srv/deploy", "../etc/passwd", true},
		{"/srv/deploy", "img/../style.css", true},
		{"/srv/deploy", "img/../../outside", true},
		{"/srv/deploy", "/etc/passwd", true},
		{".", "style.css", false},
		{"/srv/deploy", "jquery..min.js", false},
		{"/srv/deploy", "vendor/jquery..min.js", false},
		{"/srv/deploy", "...", false},
		{"/srv/deploy", "..", true},
		{"/srv/deploy", `img\..\..\outside`, true},
	}
	for _, tt := range tests {
		_, err := SafePath(tt.base, tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("SafePath(%q, %q) error=%v, wantErr=%v", tt.base, tt.input, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrPathTraversal) {
			t.Errorf("SafePath(%q, %q) = %v, want ErrPathTraversal", tt.base, tt.input, err)
		}
	}

	got, err := SafePath("/srv/deploy", "img/logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/srv/deploy", "img", "logo.png"); got != want {
		t.Fatalf("SafePath = %q, want %q", got, want)
	}
}

func TestValidateFileName(t *testing.T) {
	if err := ValidateFileName("ptd.js"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFileName("game-bundle_2.html"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFileName("../ptd.js"); err == nil {
		t.Fatal("expected error for path separator")
	}
	if err := ValidateFileName(".."); !errors.Is(err, ErrPathTraversal) {
		t.Fatalf("expected ErrPathTraversal, got %v", err)
	}
	if err := ValidateFileName(""); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := ValidateFileName("has spaces.js"); err == nil {
		t.Fatal("expected error for spaces")
	}
	if err := ValidateFileName(strings.Repeat("a", 257)); err == nil {
		t.Fatal("expected error for long name")
	}
}
