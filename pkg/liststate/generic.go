package liststate

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// GenericFilters are the filters of screens without a dedicated processor.
// Params keeps every non-common, non-selection parameter as found.
type GenericFilters struct {
	Selection []string   `json:"selection,omitempty"`
	Params    url.Values `json:"params,omitempty"`
}

// Kind implements Filters.
func (GenericFilters) Kind() Kind { return Generic }
func (GenericFilters) sealed()    {}

type genericProcessor struct{}

func (genericProcessor) Kind() Kind     { return Generic }
func (genericProcessor) Keys() []string { return []string{KeySelection} }

func (g genericProcessor) Parse(params url.Values, _ Extras) Filters {
	rest := urlparam.Clone(params)
	own := urlparam.Take(rest, g.Keys()...)
	f := GenericFilters{Selection: urlparam.List(own, KeySelection, urlparam.EncodingFlat)}
	if len(rest) > 0 {
		f.Params = rest
	}
	return f
}

// Format emits the selection first, then the passthrough parameters in
// sorted key order.
func (g genericProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(GenericFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.AddList(KeySelection, f.Selection, urlparam.EncodingFlat)
	rest := urlparam.Clone(f.Params)
	urlparam.Take(rest, append(CommonKeys(), g.Keys()...)...)
	q.AddValues(rest)
	return q.Encode()
}

func (genericProcessor) Locate(ListState, Extras) (string, bool) { return keepPath() }
