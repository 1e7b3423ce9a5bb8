package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/module-engine/adapter/memory"
	"github.com/wippyai/module-engine/loader"
	"github.com/wippyai/module-engine/registry"
	"github.com/wippyai/module-engine/resolve"
)

// manifest is the JSON module-graph format consumed by the CLI: every entry
// is a constant-export module keyed by its canonical key.
type manifest struct {
	Base    string                    `json:"base"`
	Modules map[string]manifestModule `json:"modules"`
}

type manifestModule struct {
	Dependencies []string       `json:"dependencies"`
	Exports      map[string]any `json:"exports"`
}

func main() {
	var (
		manifestFile = flag.String("manifest", "", "Path to module graph manifest (JSON)")
		entry        = flag.String("entry", "", "Entry specifier to import")
		list         = flag.Bool("list", false, "List registry records after the import")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		verbose      = flag.Bool("v", false, "Verbose engine logging")
	)
	flag.Parse()

	if *manifestFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -manifest <graph.json> -entry <specifier>")
		fmt.Fprintln(os.Stderr, "       run -manifest <graph.json> -entry <specifier> -list")
		fmt.Fprintln(os.Stderr, "       run -manifest <graph.json> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		loader.SetLogger(log)
	}

	l, err := buildLoader(*manifestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(l, *entry, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildLoader loads the manifest and wires a loader over an in-memory
// instantiator and a URL resolver rooted at the manifest's base.
func buildLoader(path string) (*loader.Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Base == "" {
		m.Base = "app:/"
	}

	src := memory.New()
	for key, def := range m.Modules {
		if err := src.DefineConstants(key, def.Dependencies, def.Exports); err != nil {
			return nil, fmt.Errorf("define %s: %w", key, err)
		}
	}

	return loader.New(&resolve.URLResolver{Base: m.Base}, src), nil
}

func run(l *loader.Loader, entry string, list bool) error {
	if entry == "" {
		return fmt.Errorf("missing -entry specifier")
	}

	ns, err := l.Import(context.Background(), entry)
	if err != nil {
		return err
	}

	fmt.Printf("Module: %s\n", ns.Key())
	fmt.Printf("Bindings:\n")
	for _, name := range ns.Names() {
		value, _ := ns.Get(name)
		fmt.Printf("  %s = %v\n", name, value)
	}

	if list {
		fmt.Printf("\nRegistry:\n")
		for _, line := range registrySnapshot(l) {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

// registrySnapshot renders "key [status] (n deps)" lines, sorted by key.
func registrySnapshot(l *loader.Loader) []string {
	var lines []string
	l.Registry().Range(func(key string, rec *registry.Record) bool {
		lines = append(lines, fmt.Sprintf("%s [%s] (%d deps)", key, rec.Status(), len(rec.Dependencies())))
		return true
	})
	sort.Strings(lines)
	return lines
}
