package loader

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/errors"
	"github.com/wippyai/module-engine/registry"
)

// operation identifies one import pipeline in log output.
type operation struct {
	id string
}

func newOperation() *operation {
	return &operation{id: uuid.NewString()[:8]}
}

// resolveKey runs the resolver adapter, annotating failures with a
// "Resolving <specifier>" frame.
func (l *Loader) resolveKey(ctx context.Context, specifier, referrer string) (string, error) {
	key, err := l.resolver.Resolve(ctx, specifier, referrer)
	if err != nil {
		return "", errors.Resolution(specifier, err)
	}
	return key, nil
}

// link returns the record for key with its whole subgraph linked,
// instantiating unseen modules along the way.
//
// An existing record is reused whatever its status: a terminal record is a
// cache hit (errored records return their cached failure), and a record still
// instantiating is an ancestor in the current walk, a true cycle, accepted as
// linked-but-not-yet-evaluated since its binding cells already live in the
// registry.
func (l *Loader) link(ctx context.Context, op *operation, key string) (*registry.Record, error) {
	rec, created := l.reg.GetOrCreate(key)
	if !created {
		if rec.Status() == registry.StatusErrored {
			return nil, rec.Err()
		}
		return rec, nil
	}

	l.log.Debug("instantiating", zap.String("op", op.id), zap.String("key", key))

	if err := l.instantiate(ctx, rec); err != nil {
		rec.Fail(err)
		l.onload(key, err)
		return nil, err
	}

	for _, dep := range rec.Dependencies() {
		if _, err := l.link(ctx, op, dep); err != nil {
			err = errors.WithFrame(err, errors.OpLoading, key)
			rec.Fail(err)
			l.onload(key, err)
			return nil, err
		}
	}

	rec.SetStatus(registry.StatusLinked)
	l.log.Debug("linked", zap.String("op", op.id), zap.String("key", key),
		zap.Int("dependencies", len(rec.Dependencies())))
	return rec, nil
}

// instantiate runs the instantiator adapter for a fresh record, declares the
// module and resolves its dependency specifiers to keys.
func (l *Loader) instantiate(ctx context.Context, rec *registry.Record) error {
	key := rec.Key()
	rec.SetStatus(registry.StatusInstantiating)

	inst, err := l.instantiator.Instantiate(ctx, key)
	if err != nil {
		return errors.Instantiation(key, err)
	}
	if inst == nil {
		// Self-registering formats hand their shape over out-of-band.
		if r := l.GetRegister(); r != nil {
			inst = &modengine.Instantiation{Dependencies: r.Dependencies, Declare: r.Declare}
		}
	}
	if inst == nil || inst.Declare == nil {
		return errors.NoInstantiation(key)
	}

	mctx := l.CreateContext(key)
	mctx.DependencyFunc = func(i int) modengine.Namespace {
		deps := rec.Dependencies()
		if i < 0 || i >= len(deps) {
			return nil
		}
		dep, ok := l.reg.Get(deps[i])
		if !ok {
			return nil
		}
		return dep.Namespace()
	}
	rec.SetContext(mctx)

	// Declare before walking dependencies: hoisted exports create their
	// cells now, ahead of any execution in the graph.
	decl := inst.Declare(rec.Export, mctx)
	rec.SetExecute(decl.Execute)

	keys := make([]string, 0, len(inst.Dependencies))
	for _, specifier := range inst.Dependencies {
		depKey, err := l.resolveKey(ctx, specifier, key)
		if err != nil {
			return errors.WithFrame(err, errors.OpLoading, key)
		}
		keys = append(keys, depKey)
	}
	rec.SetDependencies(keys)
	return nil
}
