// Package errors provides coded, actionable errors for the list-state layer.
//
// Every error carries a stable code (e.g., "E001") registered in this
// package together with a category, a short message and a longer detail.
// Codes let callers compare errors with errors.Is regardless of the detail
// or wrapped cause attached at the failure site.
//
// # Categories
//
//   - resource: an unknown or unregistered resource kind was requested
//   - navigation: the external navigator rejected a navigation
//   - payload: a serialized list state could not be decoded
//   - config: configuration files are missing or invalid
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail(`no processor registered for "gadgets"`).
//	    WithSuggestion("Use one of: devices, deployments, releases, auditlogs, tenants")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Unknown resource
//	//
//	//   no processor registered for "gadgets"
//	//
//	//   Hint: Use one of: devices, deployments, releases, auditlogs, tenants
package errors
