package registry

import "sync"

// Cell is one live, mutable export slot. The exporting record owns it;
// importers hold the owning record plus the name, never an aliased value.
// A cell can exist before its value is written: a module in a cycle observes
// the cell of a not-yet-executed dependency as present but unset.
type Cell struct {
	mu    sync.RWMutex
	value any
	isSet bool
}

// Get returns the current value and whether it has been written yet.
func (c *Cell) Get() (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.isSet
}

// set is called only through the owning record's Export.
func (c *Cell) set(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.isSet = true
}
