package registry

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func openTemp(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "tags.json"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return reg
}

func TestSetThenGet(t *testing.T) {
	reg := openTemp(t)

	if err := reg.Set("UID123", "Alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	name, ok := reg.Get("UID123")
	if !ok || name != "Alice" {
		t.Fatalf("Get = %q, %v; want Alice, true", name, ok)
	}
	if err := reg.Set("UID123", "Alicia"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if name, _ := reg.Get("UID123"); name != "Alicia" {
		t.Fatalf("expected overwrite, got %q", name)
	}
}

func TestSetStoresNameVerbatim(t *testing.T) {
	tests := []struct {
		label string
		name  string
	}{
		{"internal spaces", "Mary  Ann"},
		{"leading space", " Alice"},
		{"decomposed accent", "Jose\u0301"},
		{"whitespace only", " "},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			reg := openTemp(t)
			if err := reg.Set("UID1", tc.name); err != nil {
				t.Fatalf("Set(%q): %v", tc.name, err)
			}
			got, ok := reg.Get("UID1")
			if !ok || got != tc.name {
				t.Fatalf("Get = %q, %v; want %q", got, ok, tc.name)
			}

			reopened, err := Open(reg.Path(), nil)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if got, _ := reopened.Get("UID1"); got != tc.name {
				t.Fatalf("persisted name = %q, want %q", got, tc.name)
			}
		})
	}
}

func TestIdentifiersMatchExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.json")
	if err := os.WriteFile(path, []byte(`{" X": "Spaced", "X": "Plain"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if name, ok := reg.Get(" X"); !ok || name != "Spaced" {
		t.Fatalf("Get(%q) = %q, %v", " X", name, ok)
	}
	if name, ok := reg.Get("X"); !ok || name != "Plain" {
		t.Fatalf("Get(%q) = %q, %v", "X", name, ok)
	}
	if err := reg.Remove(" X"); err != nil {
		t.Fatalf("Remove(%q): %v", " X", err)
	}
	if _, ok := reg.Get(" X"); ok {
		t.Fatal("spaced id still present after Remove")
	}
	if _, ok := reg.Get("X"); !ok {
		t.Fatal("Remove touched a different id")
	}
}

func TestSetRejectsEmptyValues(t *testing.T) {
	reg := openTemp(t)

	if err := reg.Set("UID1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if err := reg.Set("", "Alice"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty id, got %v", err)
	}
	if err := reg.Rename("UID1", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty rename, got %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("failed validation must not mutate, len=%d", reg.Len())
	}
	if _, err := os.Stat(reg.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("failed validation must not write the store, stat err=%v", err)
	}
}

func TestRemove(t *testing.T) {
	reg := openTemp(t)

	if err := reg.Set("UID123", "Alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := reg.Remove("UID123"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := reg.Get("UID123"); ok {
		t.Fatal("entry should not exist after removal")
	}
	if err := reg.Remove("UID123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Remove should fail with ErrNotFound, got %v", err)
	}
}

func TestRename(t *testing.T) {
	reg := openTemp(t)

	if err := reg.Rename("UID123", "Bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Rename of unknown id should fail with ErrNotFound, got %v", err)
	}
	if reg.Len() != 0 {
		t.Fatal("failed rename must not register the id")
	}

	if err := reg.Set("UID123", "Alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := reg.Rename("UID123", "Bob"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if name, _ := reg.Get("UID123"); name != "Bob" {
		t.Fatalf("expected renamed entry, got %q", name)
	}
	if err := reg.Rename("UID123", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty rename, got %v", err)
	}
}

func TestMutationsPersistAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.json")
	reg, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	steps := []func() error{
		func() error { return reg.Set("A", "Alice") },
		func() error { return reg.Set("B", "Bob") },
		func() error { return reg.Set("C", "Carl") },
		func() error { return reg.Rename("B", "Bobby") },
		func() error { return reg.Remove("A") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	want := []Entry{{TagID: "B", Name: "Bobby"}, {TagID: "C", Name: "Carl"}}
	got := reopened.List()
	if len(got) != len(want) {
		t.Fatalf("reopened list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestListSortedByName(t *testing.T) {
	reg := openTemp(t)
	for id, name := range map[string]string{"3": "Zed", "1": "Amy", "2": "Amy", "4": "bob", "5": "Émile"} {
		if err := reg.Set(id, name); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	got := reg.List()
	want := []Entry{{"1", "Amy"}, {"2", "Amy"}, {"4", "bob"}, {"5", "Émile"}, {"3", "Zed"}}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSaveFailureLeavesMemoryUnchanged(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission-based failure injection requires a non-root unix user")
	}
	dir := filepath.Join(t.TempDir(), "store")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	reg, err := Open(filepath.Join(dir, "tags.json"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := reg.Set("UID1", "Alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := reg.Set("UID2", "Bob"); !errors.Is(err, ErrStorageWrite) {
		t.Fatalf("expected ErrStorageWrite, got %v", err)
	}
	if _, ok := reg.Get("UID2"); ok {
		t.Fatal("failed save must not change memory")
	}
	if err := reg.Remove("UID1"); !errors.Is(err, ErrStorageWrite) {
		t.Fatalf("expected ErrStorageWrite on remove, got %v", err)
	}
	if name, ok := reg.Get("UID1"); !ok || name != "Alice" {
		t.Fatalf("failed remove must keep entry, got %q %v", name, ok)
	}
}

func TestOpenRejectsCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); !errors.Is(err, ErrStorageFormat) {
		t.Fatalf("expected ErrStorageFormat, got %v", err)
	}
}
