// Package routepath normalizes and composes the path part of console
// locations.
//
// List-state locators derive paths from a resource's base route and a
// selected identifier (for example /releases/rel-42). The helpers here
// keep those paths canonical so that two spellings of the same location
// produce the same memoization key and the same navigation target.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize normalizes a location path.
//
// The following transformations are applied:
//   - Ensure a leading slash
//   - Collapse multiple slashes (/devices//x → /devices/x)
//   - Remove "." segments and resolve ".." segments
//   - Remove the trailing slash (except for root "/")
//
// Paths containing a backslash, a NUL byte, an invalid percent-escape or a
// ".." that would escape root are rejected. The input must not carry a
// query string; use Split first.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	var result []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return "", ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	return "/" + strings.Join(result, "/"), nil
}

// MustCanonicalize is like Canonicalize but falls back to the input when
// the path is rejected. Use it only for trusted, already-validated paths.
func MustCanonicalize(path string) string {
	p, err := Canonicalize(path)
	if err != nil {
		return path
	}
	return p
}

// Join appends escaped segments to a base path.
// Empty segments are skipped, so Join("/releases", "") is "/releases".
// The dot segments "." and ".." are written as %2E and %2E%2E so that
// canonicalization keeps them; Segment decodes them back.
func Join(base string, segments ...string) string {
	base = MustCanonicalize(base)
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(escapeSegment(seg))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func escapeSegment(seg string) string {
	switch seg {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(seg)
}

// Segment returns the decoded first path segment below base.
// It reports false when path is not below base or has no further segment.
func Segment(path, base string) (string, bool) {
	path = MustCanonicalize(path)
	base = MustCanonicalize(base)

	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	seg, _, _ := strings.Cut(rest, "/")
	if seg == "" {
		return "", false
	}
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// Split splits a location into path and query components.
// The query is returned without the leading "?" and any fragment is dropped.
func Split(location string) (path, query string) {
	location, _, _ = strings.Cut(location, "#")
	path, query, _ = strings.Cut(location, "?")
	return path, query
}

// ValidateNavPath checks that a navigation target is a relative,
// root-anchored path. Absolute URLs are rejected to prevent open redirects.
func ValidateNavPath(path string) error {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") ||
		!strings.HasPrefix(path, "/") {
		return ErrInvalidPath
	}
	return nil
}

// validatePercentEscapes checks that all percent-escapes are %XX hex pairs.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
