package memory

import (
	"context"
	"errors"
	"testing"

	modengine "github.com/wippyai/module-engine"
	engerrors "github.com/wippyai/module-engine/errors"
)

func noopDeclare(export modengine.ExportFunc, _ *modengine.Context) modengine.Declaration {
	return modengine.Declaration{}
}

func TestInstantiator_DefineAndInstantiate(t *testing.T) {
	m := New()
	if err := m.Define("app:/main", []string{"./dep"}, noopDeclare); err != nil {
		t.Fatalf("Define error: %v", err)
	}

	inst, err := m.Instantiate(context.Background(), "app:/main")
	if err != nil {
		t.Fatalf("Instantiate error: %v", err)
	}
	if len(inst.Dependencies) != 1 || inst.Dependencies[0] != "./dep" {
		t.Errorf("Dependencies = %v", inst.Dependencies)
	}
	if inst.Declare == nil {
		t.Error("Declare missing")
	}
}

func TestInstantiator_DuplicateDefine(t *testing.T) {
	m := New()
	if err := m.Define("app:/main", nil, noopDeclare); err != nil {
		t.Fatalf("Define error: %v", err)
	}

	err := m.Define("app:/main", nil, noopDeclare)
	if !errors.Is(err, &engerrors.Error{Phase: engerrors.PhaseInstantiate, Kind: engerrors.KindConflict}) {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestInstantiator_MissingKey(t *testing.T) {
	m := New()

	_, err := m.Instantiate(context.Background(), "app:/ghost")
	if !errors.Is(err, &engerrors.Error{Phase: engerrors.PhaseInstantiate, Kind: engerrors.KindNotFound}) {
		t.Errorf("error = %v, want not_found", err)
	}
}

func TestInstantiator_Remove(t *testing.T) {
	m := New()
	if err := m.DefineValues("app:/x", map[string]any{"y": 42}); err != nil {
		t.Fatalf("DefineValues error: %v", err)
	}

	if !m.Remove("app:/x") {
		t.Error("Remove returned false for a present key")
	}
	if m.Remove("app:/x") {
		t.Error("Remove returned true for an absent key")
	}
	// Key is free again after removal.
	if err := m.DefineValues("app:/x", map[string]any{"y": 43}); err != nil {
		t.Errorf("redefine after Remove: %v", err)
	}
}
