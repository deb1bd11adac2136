package urlparam

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

var (
	commaEscaper   = strings.NewReplacer("%", "%25", ",", "%2C")
	commaUnescaper = strings.NewReplacer("%2C", ",", "%2c", ",", "%25", "%")
)

// String returns the first non-empty value for key.
func String(values url.Values, key string) string {
	for _, v := range values[key] {
		if v != "" {
			return v
		}
	}
	return ""
}

// Int returns the first value for key parsed as an integer, or def when the
// key is absent, malformed, or rejected by valid.
func Int(values url.Values, key string, def int, valid func(int) bool) int {
	raw := strings.TrimSpace(String(values, key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if valid != nil && !valid(n) {
		return def
	}
	return n
}

// Bool returns true when key carries a true-ish value ("true", "1", ...).
func Bool(values url.Values, key string) bool {
	b, err := strconv.ParseBool(String(values, key))
	return err == nil && b
}

// List returns the list stored under key using the given encoding.
// Element order is preserved and empty elements are dropped; nil is
// returned when nothing remains.
func List(values url.Values, key string, enc Encoding) []string {
	var out []string
	for _, raw := range values[key] {
		if enc == EncodingComma {
			for _, part := range strings.Split(raw, ",") {
				if part = commaUnescaper.Replace(part); part != "" {
					out = append(out, part)
				}
			}
			continue
		}
		if raw != "" {
			out = append(out, raw)
		}
	}
	return out
}

// Take removes keys from values and returns them as a separate set.
// values is modified in place.
func Take(values url.Values, keys ...string) url.Values {
	taken := url.Values{}
	for _, key := range keys {
		if vs, ok := values[key]; ok {
			taken[key] = vs
			delete(values, key)
		}
	}
	return taken
}

// Clone returns a deep copy of values. A nil input yields an empty set.
func Clone(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// SortedKeys returns the keys of values in sorted order.
func SortedKeys(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Canonical encodes values with sorted keys while keeping the order of
// values under each key. Two sets differing only in key order encode
// identically; reordering a key's values changes the result.
func Canonical(values url.Values) string {
	var q Query
	q.AddValues(values)
	return q.Encode()
}
