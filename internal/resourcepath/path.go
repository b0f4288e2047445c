// Package resourcepath holds the pure path rules of the resource namespace:
// normalization, validation and decomposition of hierarchical paths such as
// "/a/b/c". Nothing in this package performs I/O.
package resourcepath

import (
	"fmt"
	"strings"
)

const (
	// Root is the path of the top-level folder.
	Root = "/"
	// Separator splits a path into segments.
	Separator = "/"

	DefaultMaxDepth       = 5
	DefaultMaxNameLength  = 100
	DefaultMaxContentSize = 5 * 1024 * 1024
)

// reservedChars may not appear in any path segment.
const reservedChars = `<>:"|?*`

// Fields a ValidationError can refer to.
const (
	FieldPath    = "path"
	FieldContent = "content"
)

// ValidationError reports a client-caused problem with a path or a payload.
// Reason is safe to return to clients verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Field: FieldPath, Reason: fmt.Sprintf(format, args...)}
}

// Validator checks paths against configurable depth and name limits.
type Validator struct {
	MaxDepth      int
	MaxNameLength int
}

// DefaultValidator returns a Validator using the default limits.
func DefaultValidator() Validator {
	return Validator{MaxDepth: DefaultMaxDepth, MaxNameLength: DefaultMaxNameLength}
}

// Validate checks path and returns the first violation found.
func (v Validator) Validate(path string) error {
	if path == "" {
		return invalid("Path cannot be empty")
	}
	if !strings.HasPrefix(path, Separator) {
		return invalid("Path must start with '/'")
	}

	segments := Segments(path)
	if len(segments) > v.MaxDepth {
		return invalid("Maximum folder depth is %d", v.MaxDepth)
	}

	for _, segment := range segments {
		if len(segment) > v.MaxNameLength {
			return invalid("Resource name cannot exceed %d characters", v.MaxNameLength)
		}
		if strings.Contains(segment, "..") || strings.ContainsRune(segment, 0) {
			return invalid("Invalid characters in path")
		}
		if strings.ContainsAny(segment, reservedChars) {
			return invalid("Path contains reserved characters")
		}
	}

	return nil
}

// Validate checks path with the default limits.
func Validate(path string) error {
	return DefaultValidator().Validate(path)
}

// ValidateContentSize rejects content longer than limit bytes. The length is the
// raw byte count, so multi-byte text counts every byte.
func ValidateContentSize(content string, limit int64) error {
	if int64(len(content)) > limit {
		return &ValidationError{
			Field:  FieldContent,
			Reason: fmt.Sprintf("Content size cannot exceed %d bytes", limit),
		}
	}
	return nil
}

// Normalize strips the trailing slash unless path is the root. Repeated
// trailing slashes are stripped together so Normalize is idempotent.
func Normalize(path string) string {
	if path == Root || path == "" {
		return path
	}
	if trimmed := strings.TrimRight(path, Separator); trimmed != "" {
		return trimmed
	}
	return Root
}

// IsRoot reports whether path denotes the root folder.
func IsRoot(path string) bool {
	return path == Root || path == ""
}

// Segments returns the non-empty segments of path.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// FolderOf returns the folder containing path. Root-level paths, and the root
// itself, live in "/".
func FolderOf(path string) string {
	i := strings.LastIndex(path, Separator)
	if i <= 0 {
		return Root
	}
	return path[:i]
}

// ChildOf returns the direct child of folder that lies on the way to path.
// For "/a/b" and "/a/b/y/z" it returns "/a/b/y". ok is false when path is not
// strictly below folder.
func ChildOf(folder, path string) (child string, ok bool) {
	prefix := folder + Separator
	if IsRoot(folder) {
		prefix = Separator
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	rest := path[len(prefix):]
	if rest == "" {
		return "", false
	}
	switch i := strings.Index(rest, Separator); {
	case i == 0:
		return "", false
	case i > 0:
		rest = rest[:i]
	}
	return prefix + rest, true
}
