// Package registry holds the module records of a loader: one Record per
// canonical module key, each owning its binding cells and namespace.
//
// The Registry backs the "import is idempotent per key" guarantee: a key maps
// to at most one Record for the lifetime of its entry. Deleting a key only
// affects future lookups; records and namespaces already handed out stay
// valid.
//
// Binding cells are the only mutable state shared between modules. The
// exporting Record alone writes them (through its Export method, which the
// loader hands to the module's declaration callback); importers read through
// the owning record's Namespace, never through a copy.
package registry
