package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/module-engine/errors"
	"github.com/wippyai/module-engine/registry"
)

// evaluate walks the linked graph rooted at rec in post-order and runs each
// module body at most once. De-duplication is first-encountered-wins: a
// module reachable via two paths executes at the position of its first
// encounter. A record already evaluating is an ancestor in the current walk,
// so the cycle is broken by returning without re-entering.
func (l *Loader) evaluate(ctx context.Context, op *operation, rec *registry.Record) error {
	switch rec.Status() {
	case registry.StatusEvaluated, registry.StatusEvaluating:
		return nil
	case registry.StatusErrored:
		return rec.Err()
	}

	key := rec.Key()
	rec.SetStatus(registry.StatusEvaluating)

	for _, dep := range rec.Dependencies() {
		depRec, ok := l.reg.Get(dep)
		if !ok {
			// The entry was deleted out from under the pipeline.
			err := errors.WithFrame(
				errors.NotFound(errors.PhaseLink, "module record", dep),
				errors.OpEvaluating, key)
			rec.Fail(err)
			l.onload(key, err)
			return err
		}
		if err := l.evaluate(ctx, op, depRec); err != nil {
			// The dependency's failure is cached on it; this record
			// caches its own copy with one more ancestor frame.
			err = errors.WithFrame(err, errors.OpEvaluating, key)
			rec.Fail(err)
			l.onload(key, err)
			return err
		}
	}

	l.log.Debug("evaluating", zap.String("op", op.id), zap.String("key", key))

	if err := rec.RunExecute(); err != nil {
		failure := errors.Evaluation(key, err)
		rec.Fail(failure)
		l.onload(key, failure)
		return failure
	}

	rec.SetStatus(registry.StatusEvaluated)
	rec.Namespace() // materialize
	l.onload(key, nil)
	return nil
}
