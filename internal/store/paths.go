package store

import (
	"fmt"
	"strings"
)

// Join builds a slash-separated document path, ignoring empty parts and
// stray separators.
func Join(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "/")
}

// cleanPath trims outer slashes and rejects empty inner segments.
// The empty string is the root path.
func cleanPath(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", nil
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, p)
		}
	}
	return p, nil
}

// within reports whether path is prefix itself or lies under it.
func within(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// related reports whether a change at a is visible from b or vice versa.
func related(a, b string) bool {
	return within(a, b) || within(b, a)
}

// ancestors returns the proper ancestors of p, shortest first.
func ancestors(p string) []string {
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			out = append(out, p[:i])
		}
	}
	return out
}

// relative strips prefix and its separator from path.
func relative(path, prefix string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
}
