package resolve

import (
	"context"
	"errors"
	"testing"

	engerrors "github.com/wippyai/module-engine/errors"
)

func TestURLResolver_Resolve(t *testing.T) {
	r := &URLResolver{Base: "app:/src/"}
	ctx := context.Background()

	tests := []struct {
		name      string
		specifier string
		referrer  string
		want      string
	}{
		{"relative against base", "./main", "", "app:/src/main"},
		{"relative against referrer", "./util", "app:/src/main", "app:/src/util"},
		{"parent against referrer", "../lib/x", "app:/src/deep/main", "app:/src/lib/x"},
		{"parent clamps at root", "../../../x", "app:/src/main", "app:/x"},
		{"rooted", "/vendor/y", "app:/src/main", "app:/vendor/y"},
		{"absolute passes through", "https://example.com/mod", "app:/src/main", "https://example.com/mod"},
		{"dot segments normalized", "./a/../b", "app:/src/main", "app:/src/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tt.specifier, tt.referrer)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.specifier, tt.referrer, got, tt.want)
			}
		})
	}
}

// Authority-less bases like "app:/" must canonicalize without growing an
// empty authority: "app:/main", never "app:///main". ResolveReference alone
// renders the latter, which breaks key equality against defined modules.
func TestURLResolver_AuthorityLessBase(t *testing.T) {
	r := &URLResolver{Base: "app:/"}
	ctx := context.Background()

	tests := []struct {
		name      string
		specifier string
		referrer  string
		want      string
	}{
		{"no-authority base", "./main", "", "app:/main"},
		{"no-authority referrer", "./util", "app:/main", "app:/util"},
		{"rooted against no-authority referrer", "/vendor/y", "app:/main", "app:/vendor/y"},
		{"authority base keeps its host", "./x", "https://example.com/app/main", "https://example.com/app/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tt.specifier, tt.referrer)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.specifier, tt.referrer, got, tt.want)
			}
		})
	}
}

func TestURLResolver_BareSpecifierFails(t *testing.T) {
	r := &URLResolver{Base: "app:/"}

	_, err := r.Resolve(context.Background(), "lodash", "app:/main")
	if err == nil {
		t.Fatal("expected resolution error for bare specifier")
	}
	if !errors.Is(err, &engerrors.Error{Phase: engerrors.PhaseResolve, Kind: engerrors.KindResolution}) {
		t.Errorf("error = %v, want resolution kind", err)
	}
}

func TestURLResolver_InvalidReferrer(t *testing.T) {
	r := &URLResolver{Base: "not-a-url"}

	_, err := r.Resolve(context.Background(), "./main", "")
	if err == nil {
		t.Fatal("expected error for relative resolution against a non-absolute base")
	}
}

func TestMapResolver_Resolve(t *testing.T) {
	r := &MapResolver{
		Map: map[string]string{
			"lodash":  "app:/vendor/lodash/index",
			"lodash/": "app:/vendor/lodash/",
		},
		Next: &URLResolver{Base: "app:/"},
	}
	ctx := context.Background()

	tests := []struct {
		specifier string
		want      string
	}{
		{"lodash", "app:/vendor/lodash/index"},
		{"lodash/fp", "app:/vendor/lodash/fp"},
		{"./local", "app:/local"},
	}

	for _, tt := range tests {
		got, err := r.Resolve(ctx, tt.specifier, "")
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.specifier, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.specifier, got, tt.want)
		}
	}

	if _, err := r.Resolve(ctx, "unmapped", ""); err == nil {
		t.Error("expected unmapped bare specifier to fail through Next")
	}
}
