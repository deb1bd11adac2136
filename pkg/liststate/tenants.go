package liststate

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// TenantFilters are the filters of the tenant list.
type TenantFilters struct {
	Search    string   `json:"search,omitempty"`
	Selection []string `json:"selection,omitempty"`
}

// Kind implements Filters.
func (TenantFilters) Kind() Kind { return Tenants }
func (TenantFilters) sealed()    {}

type tenantsProcessor struct{}

func (tenantsProcessor) Kind() Kind     { return Tenants }
func (tenantsProcessor) Keys() []string { return []string{KeySearch, KeySelection} }

func (tenantsProcessor) Parse(params url.Values, _ Extras) Filters {
	return TenantFilters{
		Search:    urlparam.String(params, KeySearch),
		Selection: urlparam.List(params, KeySelection, urlparam.EncodingFlat),
	}
}

func (tenantsProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(TenantFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.Add(KeySearch, f.Search)
	q.AddList(KeySelection, f.Selection, urlparam.EncodingFlat)
	return q.Encode()
}

func (tenantsProcessor) Locate(ListState, Extras) (string, bool) { return keepPath() }
