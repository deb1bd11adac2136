package liststate

import (
	"net/url"
	"strings"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// Device query keys.
const (
	KeyGroup  = "group"
	KeyStatus = "status"
	KeyIssue  = "issue"
	KeyFilter = "filter"
	KeySearch = "search"
	KeyOpen   = "open"
)

// FilterPredicate is a device attribute filter, encoded in the URL as
// "scope:attribute:type:value". Scope, attribute and type must not contain
// ":"; the value may.
type FilterPredicate struct {
	Scope     string `json:"scope"`
	Attribute string `json:"attribute"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// String returns the URL encoding of the predicate.
func (f FilterPredicate) String() string {
	return f.Scope + ":" + f.Attribute + ":" + f.Type + ":" + f.Value
}

// ParseFilterPredicate parses "scope:attribute:type:value".
func ParseFilterPredicate(s string) (FilterPredicate, bool) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) != 4 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return FilterPredicate{}, false
	}
	return FilterPredicate{Scope: parts[0], Attribute: parts[1], Type: parts[2], Value: parts[3]}, true
}

// DeviceFilters are the filters of the device list.
type DeviceFilters struct {
	Group      string            `json:"group,omitempty"`
	Status     string            `json:"status,omitempty"`
	Issues     []string          `json:"issues,omitempty"`
	Attributes []FilterPredicate `json:"attributes,omitempty"`
	Search     string            `json:"search,omitempty"`
	Selection  []string          `json:"selection,omitempty"`

	// Open reports whether the detail view of the selection is expanded.
	Open bool `json:"open,omitempty"`
}

// Kind implements Filters.
func (DeviceFilters) Kind() Kind { return Devices }
func (DeviceFilters) sealed()    {}

type devicesProcessor struct{}

func (devicesProcessor) Kind() Kind { return Devices }

func (devicesProcessor) Keys() []string {
	return []string{KeyGroup, KeyStatus, KeyIssue, KeyFilter, KeySearch, KeySelection, KeyOpen}
}

func (devicesProcessor) Parse(params url.Values, _ Extras) Filters {
	f := DeviceFilters{
		Group:     urlparam.String(params, KeyGroup),
		Status:    urlparam.String(params, KeyStatus),
		Issues:    urlparam.List(params, KeyIssue, urlparam.EncodingFlat),
		Search:    urlparam.String(params, KeySearch),
		Selection: urlparam.List(params, KeySelection, urlparam.EncodingFlat),
		Open:      urlparam.Bool(params, KeyOpen),
	}
	for _, raw := range urlparam.List(params, KeyFilter, urlparam.EncodingFlat) {
		if pred, ok := ParseFilterPredicate(raw); ok {
			f.Attributes = append(f.Attributes, pred)
		}
	}
	return f
}

func (devicesProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(DeviceFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.Add(KeyGroup, f.Group)
	q.Add(KeyStatus, f.Status)
	q.AddList(KeyIssue, f.Issues, urlparam.EncodingFlat)
	for _, pred := range f.Attributes {
		q.Add(KeyFilter, pred.String())
	}
	q.Add(KeySearch, f.Search)
	q.AddList(KeySelection, f.Selection, urlparam.EncodingFlat)
	q.AddBool(KeyOpen, f.Open)
	return q.Encode()
}

func (devicesProcessor) Locate(ListState, Extras) (string, bool) { return keepPath() }
