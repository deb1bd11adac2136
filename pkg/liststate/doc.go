// Package liststate translates between the list state of console screens
// and its URL query-string representation.
//
// A list state carries pagination (page, perPage), sorting, and the
// filters, search term and selection of one resource kind. Every kind is
// served by a Processor with three pure functions:
//
//   - Parse consumes the resource's own query keys and builds its Filters.
//   - Format is the inverse of Parse; default values are elided and keys
//     are emitted in a fixed order so formatting is deterministic.
//   - Locate computes the path to navigate to, or reports that the
//     current path is kept.
//
// The resource-agnostic part (page, perPage, sort, direction) is handled
// once by ParseCommon and FormatCommon before the resource processor sees
// the remaining parameters.
//
// # Round trip
//
// For a state s in canonical form (defaults set to their defined value,
// absent lists nil), parsing the formatted query yields s again:
//
//	extras := liststate.Extras{PerPage: 20}
//	query, _ := liststate.Format(liststate.Deployments, s, extras)
//	got, _ := liststate.Parse(liststate.Deployments, urlparam.Parse(query), extras)
//	// reflect.DeepEqual(got, s) == true
//
// # Tolerance
//
// Parsing never fails on malformed input. A non-numeric page, an unknown
// sort direction or an unparsable date falls back to the default, so a
// broken URL resets the list to its default view instead of erroring.
//
// The only failure is asking for a Kind that has no processor, which
// returns ErrUnknownResource.
package liststate
