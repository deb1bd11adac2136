// Package urlparam encodes and decodes individual query parameters for
// list-state processors.
//
// The package keeps two concerns apart:
//   - Query builds a query fragment with a caller-defined, stable key order
//     and elides empty or default values.
//   - The lookup helpers (String, Int, List, ...) read url.Values
//     tolerantly: malformed input falls back to a default instead of failing.
//
// Lists support two encodings:
//
//	// repeated keys: ?id=d3&id=d1&id=d2
//	q.AddList("id", ids, urlparam.EncodingFlat)
//
//	// comma-separated: ?tags=edge,beta
//	q.AddList("tags", tags, urlparam.EncodingComma)
package urlparam

import (
	"net/url"
	"strconv"
	"strings"
)

// Encoding specifies how lists are serialized to URLs.
type Encoding int

const (
	// EncodingFlat serializes lists as repeated keys: ?id=a&id=b
	EncodingFlat Encoding = iota

	// EncodingComma serializes lists as one comma-separated value: ?tags=a,b
	EncodingComma
)

// Pair is a single key/value entry of a Query.
type Pair struct {
	Key   string
	Value string
}

// Query is an ordered query-string builder.
// The zero value is ready to use.
type Query struct {
	pairs []Pair
}

// Add appends key=value. Empty values are skipped.
func (q *Query) Add(key, value string) *Query {
	if value == "" {
		return q
	}
	q.pairs = append(q.pairs, Pair{Key: key, Value: value})
	return q
}

// AddInt appends key=value unless value equals def.
func (q *Query) AddInt(key string, value, def int) *Query {
	if value == def {
		return q
	}
	q.pairs = append(q.pairs, Pair{Key: key, Value: strconv.Itoa(value)})
	return q
}

// AddBool appends key=true when value is set.
func (q *Query) AddBool(key string, value bool) *Query {
	if !value {
		return q
	}
	q.pairs = append(q.pairs, Pair{Key: key, Value: "true"})
	return q
}

// AddList appends a list using the given encoding, preserving element order.
// Empty elements are skipped; an empty list adds nothing.
func (q *Query) AddList(key string, values []string, enc Encoding) *Query {
	switch enc {
	case EncodingComma:
		parts := make([]string, 0, len(values))
		for _, v := range values {
			if v == "" {
				continue
			}
			parts = append(parts, commaEscaper.Replace(v))
		}
		q.Add(key, strings.Join(parts, ","))
	default:
		for _, v := range values {
			q.Add(key, v)
		}
	}
	return q
}

// AddValues appends every key of values in sorted key order, keeping the
// order of values under each key.
func (q *Query) AddValues(values url.Values) *Query {
	for _, key := range SortedKeys(values) {
		for _, v := range values[key] {
			q.pairs = append(q.pairs, Pair{Key: key, Value: v})
		}
	}
	return q
}

// Len returns the number of pairs.
func (q *Query) Len() int {
	return len(q.pairs)
}

// Encode returns the percent-encoded query fragment without a leading "?".
func (q *Query) Encode() string {
	if len(q.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Join concatenates query fragments with "&", dropping empty fragments.
func Join(fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.Trim(f, "&")
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "&")
}

// Parse parses a raw query string, dropping malformed pairs rather than
// failing. A leading "?" is ignored.
func Parse(raw string) url.Values {
	raw = strings.TrimPrefix(raw, "?")
	values, _ := url.ParseQuery(raw)
	if values == nil {
		values = url.Values{}
	}
	return values
}
