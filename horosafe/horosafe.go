// Package horosafe provides path guards for user-supplied file names:
// traversal checks for paths joined under a base directory and a strict
// check for bare file names.
package horosafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a user-supplied path escapes its base.
var ErrPathTraversal = errors.New("horosafe: path traversal detected")

// SafePath validates that joining base and userInput does not escape base.
// Any ".." element is refused, even one that would stay inside base; dots
// inside a name ("jquery..min.js") are fine. Returns the cleaned joined path
// or ErrPathTraversal.
func SafePath(base, userInput string) (string, error) {
	if filepath.IsAbs(userInput) || hasDotDot(userInput) {
		return "", ErrPathTraversal
	}
	base = filepath.Clean(base)
	cleaned := filepath.Join(base, filepath.Clean("/"+userInput))
	rel, err := filepath.Rel(base, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

func hasDotDot(p string) bool {
	for _, part := range strings.FieldsFunc(p, isSeparator) {
		if part == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// ValidateFileName rejects names that are not a single path element made of
// alphanumerics, underscore, hyphen and dot.
func ValidateFileName(s string) error {
	if s == "" {
		return fmt.Errorf("horosafe: file name must not be empty")
	}
	if len(s) > 256 {
		return fmt.Errorf("horosafe: file name too long (max 256)")
	}
	if s == "." || s == ".." {
		return ErrPathTraversal
	}
	for _, r := range s {
		if !isNameChar(r) {
			return fmt.Errorf("horosafe: invalid character %q in file name", r)
		}
	}
	return nil
}

func isNameChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}
