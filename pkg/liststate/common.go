package liststate

import (
	"net/url"
	"strings"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// Query keys shared by every resource.
const (
	KeyPage      = "page"
	KeyPerPage   = "perPage"
	KeySort      = "sort"
	KeyDirection = "direction"
)

var commonKeys = []string{KeyPage, KeyPerPage, KeySort, KeyDirection}

// CommonKeys returns the query keys consumed by ParseCommon.
func CommonKeys() []string {
	return append([]string(nil), commonKeys...)
}

// Common is the result of ParseCommon.
type Common struct {
	PageState PageState

	// Params holds every parameter ParseCommon did not consume, for the
	// resource processor.
	Params url.Values
}

func positive(n int) bool { return n > 0 }

// ParseCommon extracts page, perPage, sort and direction from q.
// q is not modified. Malformed or out-of-range values fall back to page 1,
// perPage, no sort key and descending order.
func ParseCommon(q url.Values, perPage int) Common {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	params := urlparam.Clone(q)
	own := urlparam.Take(params, commonKeys...)

	state := DefaultPageState(perPage)
	state.Page = urlparam.Int(own, KeyPage, 1, positive)
	state.PerPage = urlparam.Int(own, KeyPerPage, perPage, positive)
	state.Sort.Key = strings.TrimSpace(urlparam.String(own, KeySort))
	if d, ok := ParseDirection(strings.ToLower(urlparam.String(own, KeyDirection))); ok {
		state.Sort.Direction = d
	}

	return Common{PageState: state, Params: params}
}

// FormatCommon serializes p as "page=..&perPage=..&sort=..&direction=.."
// in that order, omitting page 1, the default perPage, an empty sort key
// and the descending direction.
func FormatCommon(p PageState, perPage int) string {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	p = p.normalize(perPage)

	var q urlparam.Query
	q.AddInt(KeyPage, p.Page, 1)
	q.AddInt(KeyPerPage, p.PerPage, perPage)
	q.Add(KeySort, p.Sort.Key)
	if p.Sort.Direction != Desc {
		q.Add(KeyDirection, string(p.Sort.Direction))
	}
	return q.Encode()
}
