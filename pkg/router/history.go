package router

import "sync"

// MemoryHistory is an in-process Navigator backed by a history stack.
// Push truncates forward entries and appends; replace overwrites the
// current entry. It is safe for concurrent use.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []Location
	index   int
	last    NavigateOptions
}

// NewMemoryHistory creates a history positioned at initial.
// An unparsable initial location starts at "/".
func NewMemoryHistory(initial string) *MemoryHistory {
	loc, err := ParseLocation(initial)
	if err != nil {
		loc = Location{Path: "/"}
	}
	return &MemoryHistory{entries: []Location{loc}}
}

// Location returns the current entry.
func (h *MemoryHistory) Location() Location {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.index]
}

// Navigate pushes or replaces target.
func (h *MemoryHistory) Navigate(target string, opts ...NavigateOption) error {
	req, err := NewNavigationRequest(target, opts...)
	if err != nil {
		return err
	}
	loc := req.Location()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = req.Options
	if req.Options.Replace {
		h.entries[h.index] = loc
		return nil
	}
	h.entries = append(h.entries[:h.index+1], loc)
	h.index++
	return nil
}

// Back moves one entry back. It reports false at the oldest entry.
func (h *MemoryHistory) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return false
	}
	h.index--
	return true
}

// Forward moves one entry forward. It reports false at the newest entry.
func (h *MemoryHistory) Forward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index >= len(h.entries)-1 {
		return false
	}
	h.index++
	return true
}

// Len returns the number of history entries.
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// LastOptions returns the options of the most recent navigation.
func (h *MemoryHistory) LastOptions() NavigateOptions {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}
