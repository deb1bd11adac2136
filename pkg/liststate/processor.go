package liststate

import (
	"net/url"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/urlparam"
)

// Query key shared by resources with a multi-row selection.
const KeySelection = "id"

// Processor maps the resource-specific part of a list state to and from
// the URL.
type Processor interface {
	// Kind returns the resource kind served.
	Kind() Kind

	// Keys returns the query keys the processor owns, in emission order.
	Keys() []string

	// Parse builds the resource's filters from params. Keys the processor
	// does not own are ignored.
	Parse(params url.Values, extras Extras) Filters

	// Format serializes f. Default values are omitted.
	Format(f Filters, extras Extras) string

	// Locate returns the path for state. The boolean is false when the
	// current path should be kept.
	Locate(state ListState, extras Extras) (string, bool)
}

var processors = [kindCount]Processor{
	Generic:     genericProcessor{},
	Devices:     devicesProcessor{},
	Deployments: deploymentsProcessor{},
	Releases:    releasesProcessor{},
	AuditLogs:   auditLogsProcessor{},
	Tenants:     tenantsProcessor{},
}

// Lookup returns the processor registered for k.
func Lookup(k Kind) (Processor, error) {
	if !k.Valid() {
		return nil, unknownKind(k.String())
	}
	return processors[k], nil
}

// Parse derives the list state of kind k from q.
func Parse(k Kind, q url.Values, extras Extras) (ListState, error) {
	p, err := Lookup(k)
	if err != nil {
		return ListState{}, err
	}
	common := ParseCommon(q, extras.perPage())
	return ListState{
		PageState: common.PageState,
		Filters:   p.Parse(common.Params, extras),
	}, nil
}

// Format returns the query string for s: the common fragment followed by
// the resource fragment, joined with "&".
func Format(k Kind, s ListState, extras Extras) (string, error) {
	p, err := Lookup(k)
	if err != nil {
		return "", err
	}
	if s.Filters != nil && s.Filters.Kind() != k {
		return "", errors.New("E020").
			WithDetail("filters of kind " + s.Filters.Kind().String() + " cannot be formatted as " + k.String())
	}
	return urlparam.Join(
		FormatCommon(s.PageState, extras.perPage()),
		p.Format(s.Filters, extras),
	), nil
}

// Locate returns the path to navigate to for s. It is the current path
// unless the processor derives one from the state.
func Locate(k Kind, s ListState, extras Extras) (string, error) {
	p, err := Lookup(k)
	if err != nil {
		return "", err
	}
	if path, ok := p.Locate(s, extras); ok {
		return path, nil
	}
	if extras.Location.Path == "" {
		return extras.basePath(k), nil
	}
	return extras.Location.Path, nil
}

// Empty returns the default filters of kind k.
func Empty(k Kind) (Filters, error) {
	p, err := Lookup(k)
	if err != nil {
		return nil, err
	}
	return p.Parse(url.Values{}, Extras{}), nil
}

// keepPath is the Locate result of processors whose state never affects
// the path.
func keepPath() (string, bool) { return "", false }
