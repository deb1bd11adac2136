package liststate

import (
	"net/url"

	"github.com/devconsole/liststate/pkg/routepath"
	"github.com/devconsole/liststate/pkg/urlparam"
)

// Release query keys.
const (
	KeyTags = "tags"

	// KeySelectedRelease is accepted when parsing links that carry the
	// selection in the query. It is never emitted; the selection lives in
	// the path (<base>/<release>).
	KeySelectedRelease = "selectedRelease"
)

// ReleaseFilters are the filters of the release list.
type ReleaseFilters struct {
	SelectedRelease string   `json:"selectedRelease,omitempty"`
	Search          string   `json:"search,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Kind implements Filters.
func (ReleaseFilters) Kind() Kind { return Releases }
func (ReleaseFilters) sealed()    {}

type releasesProcessor struct{}

func (releasesProcessor) Kind() Kind     { return Releases }
func (releasesProcessor) Keys() []string { return []string{KeySearch, KeyTags} }

func (releasesProcessor) Parse(params url.Values, extras Extras) Filters {
	f := ReleaseFilters{
		Search: urlparam.String(params, KeySearch),
		Tags:   urlparam.List(params, KeyTags, urlparam.EncodingComma),
	}
	if name, ok := routepath.Segment(extras.Location.Path, extras.basePath(Releases)); ok {
		f.SelectedRelease = name
	} else {
		f.SelectedRelease = urlparam.String(params, KeySelectedRelease)
	}
	return f
}

func (releasesProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(ReleaseFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.Add(KeySearch, f.Search)
	q.AddList(KeyTags, f.Tags, urlparam.EncodingComma)
	return q.Encode()
}

// Locate returns <base>/<release> for a selected release and <base>
// otherwise, so clearing the selection leaves the detail path.
func (releasesProcessor) Locate(state ListState, extras Extras) (string, bool) {
	var selected string
	if f, ok := state.Filters.(ReleaseFilters); ok {
		selected = f.SelectedRelease
	}
	return routepath.Join(extras.basePath(Releases), selected), true
}
