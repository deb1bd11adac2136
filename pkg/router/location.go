package router

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/routepath"
	"github.com/devconsole/liststate/pkg/urlparam"
)

// Location is the current path and query of the console.
type Location struct {
	// Path is the canonical path, always starting with "/".
	Path string

	// RawQuery is the encoded query string without the leading "?".
	RawQuery string
}

// ParseLocation parses "path?query#fragment" into a Location.
// The path is canonicalized and must be root-anchored; the fragment is
// dropped.
func ParseLocation(raw string) (Location, error) {
	path, query := routepath.Split(raw)
	if path == "" {
		path = "/"
	}
	if err := routepath.ValidateNavPath(path); err != nil {
		return Location{}, err
	}
	canonical, err := routepath.Canonicalize(path)
	if err != nil {
		return Location{}, err
	}
	return Location{Path: canonical, RawQuery: query}, nil
}

// Query returns the parsed query parameters. Malformed pairs are dropped.
func (l Location) Query() url.Values {
	return urlparam.Parse(l.RawQuery)
}

// String returns path?query, or just the path when the query is empty.
func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	if l.RawQuery == "" {
		return path
	}
	return path + "?" + l.RawQuery
}
