package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestFileSlot_LoadMissing(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSlot() failed: %v", err)
	}

	_, ok, err := slot.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if ok {
		t.Error("Load() reported data for an empty slot")
	}
}

func TestFileSlot_StoreThenLoad(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSlot() failed: %v", err)
	}

	want := []byte("c2lrYS1zbmFwc2hvdA==")
	if err := slot.Store(want); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	got, ok, err := slot.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !ok {
		t.Fatal("Load() found no data after Store()")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestFileSlot_OverwriteReplacesWholeBlob(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSlot() failed: %v", err)
	}

	if err := slot.Store([]byte("first snapshot with a longer payload")); err != nil {
		t.Fatalf("first Store() failed: %v", err)
	}
	if err := slot.Store([]byte("second")); err != nil {
		t.Fatalf("second Store() failed: %v", err)
	}

	got, _, err := slot.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load() = %q, want %q", got, "second")
	}
}

func TestFileSlot_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	slot, err := NewFileSlot(dir)
	if err != nil {
		t.Fatalf("NewFileSlot() failed: %v", err)
	}
	if err := slot.Store([]byte("x")); err != nil {
		t.Errorf("Store() in nested dir failed: %v", err)
	}
}
