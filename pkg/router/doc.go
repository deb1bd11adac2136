// Package router defines how list-state code talks to navigation.
//
// A Navigator owns the current Location and accepts navigation requests:
//
//	type Navigator interface {
//	    Location() Location
//	    Navigate(target string, opts ...NavigateOption) error
//	}
//
// Options follow the functional style:
//
//	nav.Navigate("/devices?page=2", router.WithReplace(), router.WithoutScroll())
//
// Navigations push a new history entry by default. WithReplace overwrites
// the current entry; WithPush restores the default after an earlier
// WithReplace, so callers can override a replace chosen upstream.
//
// MemoryHistory is an in-process Navigator with back/forward support,
// used by the CLI, the inspector API and tests. The navsocket package
// provides a Navigator that drives a browser tab.
package router
