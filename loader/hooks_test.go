package loader_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/adapter/memory"
	"github.com/wippyai/module-engine/loader"
	"github.com/wippyai/module-engine/resolve"
)

func TestOnLoad_FiresOncePerSettlementInOrder(t *testing.T) {
	l, src := newTestLoader(t)
	require.NoError(t, src.DefineConstants("app:/root", []string{"./dep"}, nil))
	require.NoError(t, src.DefineValues("app:/dep", map[string]any{"y": 1}))

	type settlement struct {
		key    string
		failed bool
	}
	var settled []settlement
	l.OnLoad = func(key string, err error) {
		settled = append(settled, settlement{key: key, failed: err != nil})
	}

	ctx := context.Background()
	_, err := l.Import(ctx, "./root")
	require.NoError(t, err)

	// Dependencies settle before dependents, each exactly once.
	require.Equal(t, []settlement{
		{key: "app:/dep"},
		{key: "app:/root"},
	}, settled)

	// A cache hit settles nothing new.
	_, err = l.Import(ctx, "./root")
	require.NoError(t, err)
	require.Len(t, settled, 2)
}

func TestOnLoad_ReceivesFailure(t *testing.T) {
	l, src := newTestLoader(t)
	require.NoError(t, src.Define("app:/bad", nil, func(export modengine.ExportFunc, _ *modengine.Context) modengine.Declaration {
		return modengine.Declaration{Execute: func() error { return fmt.Errorf("boom") }}
	}))

	var hookErr error
	hookRan := false
	l.OnLoad = func(key string, err error) {
		require.Equal(t, "app:/bad", key)
		hookRan = true
		hookErr = err
	}

	_, err := l.Import(context.Background(), "./bad")
	require.Error(t, err)
	require.True(t, hookRan, "OnLoad must fire before Import returns")
	require.Equal(t, err, hookErr)
}

func TestCreateContext_DefaultMetadata(t *testing.T) {
	l, src := newTestLoader(t)

	var seen *modengine.Context
	require.NoError(t, src.Define("app:/main", nil, func(export modengine.ExportFunc, mctx *modengine.Context) modengine.Declaration {
		seen = mctx
		return modengine.Declaration{}
	}))

	_, err := l.Import(context.Background(), "./main")
	require.NoError(t, err)

	require.NotNil(t, seen)
	require.Equal(t, "app:/main", seen.Key)
	require.Equal(t, "app:/main", seen.Meta["url"])

	key, err := seen.Resolve(context.Background(), "./sibling")
	require.NoError(t, err)
	require.Equal(t, "app:/sibling", key)
}

// ctxTagKey marks a context value the resolver is expected to observe.
type ctxTagKey struct{}

// taggingResolver records the tag value carried by the resolve context.
type taggingResolver struct {
	modengine.Resolver
	saw any
}

func (r *taggingResolver) Resolve(ctx context.Context, specifier, referrer string) (string, error) {
	r.saw = ctx.Value(ctxTagKey{})
	return r.Resolver.Resolve(ctx, specifier, referrer)
}

func TestContext_ResolvePassesCallerContext(t *testing.T) {
	res := &taggingResolver{Resolver: &resolve.URLResolver{Base: "app:/"}}
	src := memory.New()
	l := loader.New(res, src)

	var seen *modengine.Context
	require.NoError(t, src.Define("app:/main", nil, func(export modengine.ExportFunc, mctx *modengine.Context) modengine.Declaration {
		seen = mctx
		return modengine.Declaration{}
	}))

	_, err := l.Import(context.Background(), "./main")
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), ctxTagKey{}, "tagged")
	key, err := seen.Resolve(ctx, "./sibling")
	require.NoError(t, err)
	require.Equal(t, "app:/sibling", key)
	require.Equal(t, "tagged", res.saw, "caller context must reach the resolver")
}

func TestCreateContext_OverrideComposes(t *testing.T) {
	l, src := newTestLoader(t)
	l.CreateContext = func(key string) *modengine.Context {
		mctx := l.DefaultContext(key)
		mctx.Meta["env"] = "test"
		return mctx
	}

	var seen *modengine.Context
	require.NoError(t, src.Define("app:/main", nil, func(export modengine.ExportFunc, mctx *modengine.Context) modengine.Declaration {
		seen = mctx
		return modengine.Declaration{}
	}))

	_, err := l.Import(context.Background(), "./main")
	require.NoError(t, err)

	require.Equal(t, "test", seen.Meta["env"])
	require.Equal(t, "app:/main", seen.Meta["url"], "default metadata survives the override")
}

func TestContext_DynamicImport(t *testing.T) {
	l, src := newTestLoader(t)
	require.NoError(t, src.DefineValues("app:/other", map[string]any{"y": 7}))

	var mctx *modengine.Context
	require.NoError(t, src.Define("app:/main", nil, func(export modengine.ExportFunc, c *modengine.Context) modengine.Declaration {
		mctx = c
		return modengine.Declaration{}
	}))

	ctx := context.Background()
	_, err := l.Import(ctx, "./main")
	require.NoError(t, err)

	// Dynamic import after load, relative to the module.
	ns, err := mctx.Import(ctx, "./other")
	require.NoError(t, err)
	y, ok := ns.Get("y")
	require.True(t, ok)
	require.Equal(t, 7, y)
}

func TestContext_DependencyOutOfRange(t *testing.T) {
	l, src := newTestLoader(t)
	require.NoError(t, src.DefineValues("app:/dep", map[string]any{"y": 1}))

	var dep0, dep1 modengine.Namespace
	require.NoError(t, src.Define("app:/main", []string{"./dep"}, func(export modengine.ExportFunc, mctx *modengine.Context) modengine.Declaration {
		return modengine.Declaration{Execute: func() error {
			dep0 = mctx.Dependency(0)
			dep1 = mctx.Dependency(1)
			return nil
		}}
	}))

	_, err := l.Import(context.Background(), "./main")
	require.NoError(t, err)
	require.NotNil(t, dep0)
	require.Nil(t, dep1)
}
