package resolve

import (
	"context"
	"net/url"
	"strings"

	modengine "github.com/wippyai/module-engine"
	"github.com/wippyai/module-engine/errors"
)

// URLResolver resolves specifiers as URLs against a base. The canonical
// module key is the normalized absolute URL string.
//
// Rules, in order:
//   - "./x", "../x" and "/x" resolve against the referrer (the base for
//     top-level imports)
//   - a specifier with a scheme is normalized and used as-is
//   - anything else is a bare specifier and fails with a resolution error
type URLResolver struct {
	// Base is the absolute URL top-level imports resolve against,
	// e.g. "file:///srv/app/" or "https://example.com/app/".
	Base string
}

// Resolve implements modengine.Resolver.
func (r *URLResolver) Resolve(ctx context.Context, specifier, referrer string) (string, error) {
	if referrer == "" {
		referrer = r.Base
	}

	if isRelative(specifier) {
		base, err := url.Parse(referrer)
		if err != nil || !base.IsAbs() {
			return "", errors.Resolution(specifier, errors.Load("invalid referrer "+referrer, err))
		}
		ref, err := url.Parse(specifier)
		if err != nil {
			return "", errors.Resolution(specifier, err)
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host == "" {
			// ResolveReference does not carry OmitHost over from the
			// base, so an authority-less base like "app:/" would render
			// as "app:///..." and break key equality.
			resolved.OmitHost = base.OmitHost
		}
		return resolved.String(), nil
	}

	if u, err := url.Parse(specifier); err == nil && u.IsAbs() {
		return u.String(), nil
	}

	return "", errors.Resolution(specifier,
		errors.Load("bare specifier has no mapping (referrer "+referrer+")", nil))
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

// MapResolver resolves bare specifiers through a prefix map, import-map
// style, delegating everything it does not match to Next.
//
// An exact entry wins over prefix entries; prefix entries must end in "/"
// and replace the matched prefix, longest match first.
type MapResolver struct {
	Map  map[string]string
	Next modengine.Resolver
}

// Resolve implements modengine.Resolver.
func (m *MapResolver) Resolve(ctx context.Context, specifier, referrer string) (string, error) {
	if mapped, ok := m.Map[specifier]; ok {
		return m.Next.Resolve(ctx, mapped, referrer)
	}

	best := ""
	for prefix := range m.Map {
		if !strings.HasSuffix(prefix, "/") {
			continue
		}
		if strings.HasPrefix(specifier, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		mapped := m.Map[best] + specifier[len(best):]
		return m.Next.Resolve(ctx, mapped, referrer)
	}

	return m.Next.Resolve(ctx, specifier, referrer)
}
