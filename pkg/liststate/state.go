package liststate

import (
	"strings"

	"github.com/devconsole/liststate/pkg/router"
)

// DefaultPerPage is the page size used when neither the caller nor the
// configuration supplies one.
const DefaultPerPage = 20

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection parses s, reporting false for anything but asc or desc.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return Desc, false
}

// Sort is the sort order of a list. An empty Key means the backend's
// natural order.
type Sort struct {
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction"`
}

// PageState is the resource-agnostic part of a list state.
type PageState struct {
	Page    int  `json:"page"`
	PerPage int  `json:"perPage"`
	Sort    Sort `json:"sort"`
}

// DefaultPageState returns the first page sorted descending by the natural
// order with the given page size.
func DefaultPageState(perPage int) PageState {
	return PageState{Page: 1, PerPage: perPage, Sort: Sort{Direction: Desc}}
}

// normalize replaces out-of-range values with their defaults.
func (p PageState) normalize(perPage int) PageState {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = perPage
	}
	p.Sort.Key = strings.TrimSpace(p.Sort.Key)
	if d, ok := ParseDirection(string(p.Sort.Direction)); ok {
		p.Sort.Direction = d
	} else {
		p.Sort.Direction = Desc
	}
	return p
}

// ListState is the full state of one resource list.
type ListState struct {
	PageState

	// Total is the last known number of rows. It is never written to the
	// URL and parses as zero.
	Total int `json:"total"`

	// Filters holds the resource-specific filters, search and selection.
	Filters Filters `json:"filters"`
}

// Filters is the resource-specific part of a ListState. The concrete type
// is determined by the Kind: DeviceFilters, DeploymentFilters,
// ReleaseFilters, AuditLogFilters, TenantFilters or GenericFilters.
type Filters interface {
	// Kind returns the resource kind the filters belong to.
	Kind() Kind

	sealed()
}

// Extras is the call-time context a processor may need beyond the query.
// It is passed explicitly instead of being read from ambient state.
type Extras struct {
	// PerPage is the resource's default page size. Zero means
	// DefaultPerPage.
	PerPage int

	// BasePath is the resource's root route. Empty means the kind's
	// DefaultBasePath.
	BasePath string

	// Location is the current location. Locators use it to keep the
	// current path and parsers to read path-encoded selection.
	Location router.Location
}

func (e Extras) perPage() int {
	if e.PerPage > 0 {
		return e.PerPage
	}
	return DefaultPerPage
}

func (e Extras) basePath(k Kind) string {
	if e.BasePath != "" {
		return e.BasePath
	}
	return k.DefaultBasePath()
}

// ResourceDefaults are the configured defaults of one resource.
type ResourceDefaults struct {
	PerPage  int
	BasePath string
}

// Defaults maps kinds to their configured defaults.
type Defaults map[Kind]ResourceDefaults

// BuiltinDefaults returns DefaultPerPage and the default base path for
// every kind.
func BuiltinDefaults() Defaults {
	d := make(Defaults, kindCount)
	for _, k := range Kinds() {
		d[k] = ResourceDefaults{PerPage: DefaultPerPage, BasePath: k.DefaultBasePath()}
	}
	return d
}

// Extras returns the extras for kind k at loc, filling unset values from
// the built-in defaults.
func (d Defaults) Extras(k Kind, loc router.Location) Extras {
	rd := d[k]
	e := Extras{PerPage: rd.PerPage, BasePath: rd.BasePath, Location: loc}
	if e.PerPage <= 0 {
		e.PerPage = DefaultPerPage
	}
	if e.BasePath == "" {
		e.BasePath = k.DefaultBasePath()
	}
	return e
}

// KindOf returns the kind whose base path is the longest prefix of path,
// on a segment boundary. Paths under no base path map to Generic.
func (d Defaults) KindOf(path string) Kind {
	best, bestLen := Generic, 0
	for _, k := range Kinds() {
		if k == Generic {
			continue
		}
		base := d.Extras(k, router.Location{}).BasePath
		if !underBase(path, base) || len(base) <= bestLen {
			continue
		}
		best, bestLen = k, len(base)
	}
	return best
}

func underBase(path, base string) bool {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return false
	}
	return path == base || strings.HasPrefix(path, base+"/")
}
