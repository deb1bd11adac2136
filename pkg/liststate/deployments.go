package liststate

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// DeploymentFilters are the filters of the deployment list.
type DeploymentFilters struct {
	Status    string   `json:"status,omitempty"`
	Search    string   `json:"search,omitempty"`
	Selection []string `json:"selection,omitempty"`
}

// Kind implements Filters.
func (DeploymentFilters) Kind() Kind { return Deployments }
func (DeploymentFilters) sealed()    {}

type deploymentsProcessor struct{}

func (deploymentsProcessor) Kind() Kind { return Deployments }

func (deploymentsProcessor) Keys() []string {
	return []string{KeyStatus, KeySearch, KeySelection}
}

func (deploymentsProcessor) Parse(params url.Values, _ Extras) Filters {
	return DeploymentFilters{
		Status:    urlparam.String(params, KeyStatus),
		Search:    urlparam.String(params, KeySearch),
		Selection: urlparam.List(params, KeySelection, urlparam.EncodingFlat),
	}
}

func (deploymentsProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(DeploymentFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.Add(KeyStatus, f.Status)
	q.Add(KeySearch, f.Search)
	q.AddList(KeySelection, f.Selection, urlparam.EncodingFlat)
	return q.Encode()
}

func (deploymentsProcessor) Locate(ListState, Extras) (string, bool) { return keepPath() }
