package listsync

import (
	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/router"
)

// Binding is the get/set pair of one resource list.
type Binding struct {
	f      *Facade
	kind   liststate.Kind
	extras liststate.Extras
}

// Bind returns the binding of kind k. PerPage and BasePath in extras
// override the facade defaults for every call through the binding.
func (f *Facade) Bind(k liststate.Kind, extras liststate.Extras) Binding {
	return Binding{f: f, kind: k, extras: extras}
}

// Kind returns the bound resource kind.
func (b Binding) Kind() liststate.Kind { return b.kind }

// Get returns the current state.
func (b Binding) Get() (liststate.ListState, error) {
	return b.f.ReadWith(b.kind, b.extras)
}

// Set navigates to the location of s.
func (b Binding) Set(s liststate.ListState, opts ...router.NavigateOption) error {
	return b.f.WriteWith(b.kind, s, b.extras, opts...)
}

// Update reads the current state, applies fn and writes the result.
func (b Binding) Update(fn func(liststate.ListState) liststate.ListState, opts ...router.NavigateOption) error {
	s, err := b.Get()
	if err != nil {
		return err
	}
	return b.Set(fn(s), opts...)
}

// Reset writes the default state: first page, default size, no sort and
// empty filters.
func (b Binding) Reset(opts ...router.NavigateOption) error {
	filters, err := liststate.Empty(b.kind)
	if err != nil {
		return err
	}
	loc := b.f.nav.Location()
	perPage := b.f.extras(b.kind, b.extras, loc).PerPage
	return b.Set(liststate.ListState{
		PageState: liststate.DefaultPageState(perPage),
		Filters:   filters,
	}, opts...)
}
