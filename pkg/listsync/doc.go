// Package listsync binds list-state processors to a navigator.
//
// A Facade reads the current location from a router.Navigator, derives the
// list state of a resource kind, and writes a new state back by issuing a
// single navigation:
//
//	nav := router.NewMemoryHistory("/devices?page=2")
//	f := listsync.New(nav)
//
//	state, err := f.Read(liststate.Devices)
//	state.Page++
//	err = f.Write(liststate.Devices, state) // replaces /devices?page=3
//
// Reads are memoized per resource, location and extras. Writes default to
// replacing the current history entry; pass router.WithPush() to add an
// entry instead. Navigation errors are returned unchanged.
//
// Bind returns a Binding, the get/set pair UI code holds on to.
package listsync
