package router

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Params are extra query parameters appended after the computed query.
	Params map[string]string

	// Scroll controls whether to scroll to top after navigation.
	// Defaults to true.
	Scroll bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithPush adds a new history entry. It overrides an earlier WithReplace.
func WithPush() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = false
	}
}

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]string) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// WithoutScroll disables scrolling to top after navigation.
func WithoutScroll() NavigateOption {
	return func(o *NavigateOptions) {
		o.Scroll = false
	}
}

// ApplyOptions resolves options over the defaults (push, scroll to top).
func ApplyOptions(opts ...NavigateOption) NavigateOptions {
	options := NavigateOptions{Scroll: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// Navigator is the navigation provider the list-state layer drives.
// Implementations own the location; callers only read it and request
// navigations.
type Navigator interface {
	// Location returns the current location.
	Location() Location

	// Navigate moves to target ("path?query"). Errors are returned to the
	// caller unchanged.
	Navigate(target string, opts ...NavigateOption) error
}

// NavigationRequest represents a resolved navigation.
type NavigationRequest struct {
	Path    string
	Query   string
	Options NavigateOptions
}

// NewNavigationRequest builds a request for target with opts applied.
func NewNavigationRequest(target string, opts ...NavigateOption) (NavigationRequest, error) {
	loc, err := ParseLocation(target)
	if err != nil {
		return NavigationRequest{}, err
	}
	return NavigationRequest{
		Path:    loc.Path,
		Query:   loc.RawQuery,
		Options: ApplyOptions(opts...),
	}, nil
}

// Location returns the location the request navigates to, including
// Options.Params.
func (nr NavigationRequest) Location() Location {
	query := nr.Query
	if len(nr.Options.Params) > 0 {
		extra := make(url.Values, len(nr.Options.Params))
		for k, v := range nr.Options.Params {
			extra.Set(k, v)
		}
		query = urlparam.Join(query, urlparam.Canonical(extra))
	}
	return Location{Path: nr.Path, RawQuery: query}
}

// BuildURL returns the full relative URL for the request.
func (nr NavigationRequest) BuildURL() string {
	return nr.Location().String()
}
