package listsync

import "github.com/devconsole/liststate/pkg/liststate"

// Observer is notified of facade activity. Implementations must be safe
// for concurrent use.
type Observer interface {
	// ObserveRead is called after every successful read.
	ObserveRead(k liststate.Kind, cached bool)

	// BeginWrite is called before a navigation; the returned func is
	// called with the navigation result.
	BeginWrite(k liststate.Kind, target string) func(err error)
}

// Observers combines observers into one. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nopObserver{}
	case 1:
		return list[0]
	}
	return list
}

type nopObserver struct{}

func (nopObserver) ObserveRead(liststate.Kind, bool)              {}
func (nopObserver) BeginWrite(liststate.Kind, string) func(error) { return func(error) {} }

type multiObserver []Observer

func (m multiObserver) ObserveRead(k liststate.Kind, cached bool) {
	for _, o := range m {
		o.ObserveRead(k, cached)
	}
}

func (m multiObserver) BeginWrite(k liststate.Kind, target string) func(error) {
	done := make([]func(error), len(m))
	for i, o := range m {
		done[i] = o.BeginWrite(k, target)
	}
	return func(err error) {
		for i := len(done) - 1; i >= 0; i-- {
			done[i](err)
		}
	}
}
