package registry

import "sync"

// Registry maps canonical module keys to records. Thread-safe; no operation
// blocks on pipeline work.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Get returns the record for key, if present.
func (r *Registry) Get(key string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	return rec, ok
}

// Set stores a record under key, replacing any existing entry.
func (r *Registry) Set(key string, rec *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = rec
}

// GetOrCreate returns the record for key, creating and registering a fresh
// uninstantiated one atomically when absent. The second result reports
// whether the record was created by this call.
func (r *Registry) GetOrCreate(key string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[key]; ok {
		return rec, false
	}
	rec := NewRecord(key)
	r.records[key] = rec
	return rec, true
}

// Delete removes the entry for key, reporting whether it was present.
// In-flight work holding the record keeps it; only future lookups miss.
func (r *Registry) Delete(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[key]
	delete(r.records, key)
	return ok
}

// Range calls fn for each (key, record) pair until fn returns false.
func (r *Registry) Range(fn func(key string, rec *Record) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for key, rec := range r.records {
		if !fn(key, rec) {
			return
		}
	}
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
