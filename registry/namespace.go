package registry

import "sort"

// Tag is the reserved tag identifying module namespaces.
const Tag = "Module"

// Namespace is the read-only external view of a record's bindings. Every read
// dereferences the live cell at call time, so a value written late in the
// owner's body is visible to any importer reading after that point.
type Namespace struct {
	rec *Record
}

// Key returns the owning module's canonical key.
func (n *Namespace) Key() string {
	return n.rec.key
}

// Get returns the current value of a named binding. The second result is
// false when the name was never exported, or its cell exists but is unset
// (a cycle read ahead of the owner's execution).
func (n *Namespace) Get(name string) (any, bool) {
	cell, ok := n.rec.Cell(name)
	if !ok {
		return nil, false
	}
	return cell.Get()
}

// Names returns the sorted exported names present so far.
func (n *Namespace) Names() []string {
	names := n.rec.BindingNames()
	sort.Strings(names)
	return names
}

// Tag returns the reserved module namespace tag.
func (n *Namespace) Tag() string {
	return Tag
}
