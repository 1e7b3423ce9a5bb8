package registry

import (
	"sync"

	modengine "github.com/wippyai/module-engine"
)

// Status is the lifecycle state of a module record. Evaluated and Errored are
// terminal and permanent.
type Status string

const (
	StatusUninstantiated Status = "uninstantiated"
	StatusInstantiating  Status = "instantiating"
	StatusLinked         Status = "linked"
	StatusEvaluating     Status = "evaluating"
	StatusEvaluated      Status = "evaluated"
	StatusErrored        Status = "errored"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusEvaluated || s == StatusErrored
}

// Record is the unit of state per module key. Records are owned by the
// Registry and referenced, never copied, by the linker and evaluator.
type Record struct {
	key string

	mu       sync.RWMutex
	deps     []string // canonical dependency keys, declared order, duplicates preserved
	cells    map[string]*Cell
	execute  func() error
	executed bool
	context  *modengine.Context
	status   Status
	err      error
	ns       *Namespace
}

// NewRecord creates a record for key in the uninstantiated state.
func NewRecord(key string) *Record {
	return &Record{
		key:    key,
		cells:  make(map[string]*Cell),
		status: StatusUninstantiated,
	}
}

// Key returns the record's canonical module key.
func (r *Record) Key() string {
	return r.key
}

// Status returns the record's lifecycle state.
func (r *Record) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// SetStatus advances the lifecycle. Terminal states are never overwritten.
func (r *Record) SetStatus(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return
	}
	r.status = s
}

// Dependencies returns the canonical dependency keys in declared order.
// Duplicates are preserved for binding purposes; the linker and evaluator
// de-duplicate by record status.
func (r *Record) Dependencies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deps
}

// SetDependencies stores the resolved dependency keys.
func (r *Record) SetDependencies(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps = keys
}

// Context returns the per-module metadata record.
func (r *Record) Context() *modengine.Context {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.context
}

// SetContext stores the per-module metadata record. Set once, at link time.
func (r *Record) SetContext(c *modengine.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.context = c
}

// SetExecute stores the module body callback returned by declare.
func (r *Record) SetExecute(fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execute = fn
}

// RunExecute invokes the module body. It runs at most once per record, ever;
// later calls are no-ops returning nil. A nil body counts as an empty one.
func (r *Record) RunExecute() error {
	r.mu.Lock()
	if r.executed {
		r.mu.Unlock()
		return nil
	}
	r.executed = true
	fn := r.execute
	r.execute = nil
	r.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn()
}

// Export writes one named binding, creating its cell on first write.
// Repeated writes to the same name are last-write-wins, which also decides
// star re-export conflicts. The returned value is the value written.
//
// Export is the owner-only write path: the loader hands it to this module's
// declaration callback and to nobody else.
func (r *Record) Export(name string, value any) any {
	r.mu.Lock()
	cell, ok := r.cells[name]
	if !ok {
		cell = &Cell{}
		r.cells[name] = cell
	}
	r.mu.Unlock()

	cell.set(value)
	return value
}

// Cell returns the binding cell for name, if it exists yet.
func (r *Record) Cell(name string) (*Cell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cell, ok := r.cells[name]
	return cell, ok
}

// BindingNames returns the names with existing cells, unsorted.
func (r *Record) BindingNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cells))
	for name := range r.cells {
		names = append(names, name)
	}
	return names
}

// Namespace returns the record's namespace object. The value is created once
// and stable for the record's lifetime, so repeated imports of an evaluated
// key return the identical namespace.
func (r *Record) Namespace() *Namespace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ns == nil {
		r.ns = &Namespace{rec: r}
	}
	return r.ns
}

// Fail moves the record to the errored state and caches the failure. The
// first failure wins; an already terminal record is left untouched.
func (r *Record) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return
	}
	r.status = StatusErrored
	r.err = err
}

// Err returns the cached failure for an errored record, nil otherwise.
func (r *Record) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
