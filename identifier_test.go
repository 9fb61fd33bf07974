package md2epub_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/alnah/go-md2epub"
)

// ---------------------------------------------------------------------------
// TestEnsureIdentifier - Assigning and persisting a book identifier
// ---------------------------------------------------------------------------

func TestEnsureIdentifier_JSON(t *testing.T) {
	t.Parallel()

	src := "{\"title\": \"Book\", \"contents\": [\"a.md\", \"b.md\"], \"toc\": false}"
	store := newMemStore("json", src)
	m := mustNormalize(t, &md2epub.RawManifest{Contents: md2epub.StringList{"a.md"}})

	assigned, err := md2epub.EnsureIdentifier(context.Background(), store, []byte(src), m)
	if err != nil {
		t.Fatalf("EnsureIdentifier() error = %v", err)
	}
	if !assigned {
		t.Fatal("EnsureIdentifier() assigned = false, want true")
	}
	if _, err := uuid.Parse(m.UUID); err != nil {
		t.Errorf("UUID = %q is not a UUID: %v", m.UUID, err)
	}

	want := "{\n" +
		"  \"title\": \"Book\",\n" +
		"  \"contents\": [\n" +
		"    \"a.md\",\n" +
		"    \"b.md\"\n" +
		"  ],\n" +
		"  \"toc\": false,\n" +
		"  \"uuid\": \"" + m.UUID + "\"\n" +
		"}\n"
	if got := store.contents(); got != want {
		t.Errorf("saved manifest =\n%s\nwant\n%s", got, want)
	}
}

func TestEnsureIdentifier_ReplacesEmptyKey(t *testing.T) {
	t.Parallel()

	src := "\ufeff{\"uuid\": \"\", \"title\": \"Book\"}"
	store := newMemStore("json", src)
	m := mustNormalize(t, &md2epub.RawManifest{Contents: md2epub.StringList{"a.md"}})

	if _, err := md2epub.EnsureIdentifier(context.Background(), store, []byte(src), m); err != nil {
		t.Fatalf("EnsureIdentifier() error = %v", err)
	}

	var saved map[string]any
	if err := json.Unmarshal([]byte(store.contents()), &saved); err != nil {
		t.Fatalf("saved manifest is not JSON: %v", err)
	}
	if saved["uuid"] != m.UUID || len(saved) != 2 {
		t.Errorf("saved = %v, want uuid %q and title", saved, m.UUID)
	}
	if !strings.HasPrefix(store.contents(), "{\n  \"uuid\"") {
		t.Errorf("saved manifest = %q, want uuid kept first", store.contents())
	}
}

func TestEnsureIdentifier_YAML(t *testing.T) {
	t.Parallel()

	src := "title: Book\ncontents:\n  - a.md\n"
	store := newMemStore("yaml", src)
	m := mustNormalize(t, &md2epub.RawManifest{Contents: md2epub.StringList{"a.md"}})

	if _, err := md2epub.EnsureIdentifier(context.Background(), store, []byte(src), m); err != nil {
		t.Fatalf("EnsureIdentifier() error = %v", err)
	}

	saved := store.contents()
	if !strings.Contains(saved, "uuid:") || !strings.Contains(saved, m.UUID) {
		t.Errorf("saved manifest = %q, want uuid %q", saved, m.UUID)
	}
	if strings.Index(saved, "title:") > strings.Index(saved, "uuid:") {
		t.Errorf("saved manifest = %q, want uuid appended last", saved)
	}
}

func TestEnsureIdentifier_KeepsExisting(t *testing.T) {
	t.Parallel()

	store := newMemStore("json", "{}")
	m := mustNormalize(t, &md2epub.RawManifest{
		Contents: md2epub.StringList{"a.md"},
		UUID:     "0b9d0f42-2f1e-4bd5-8f3e-6a1c1d2e3f40",
	})

	assigned, err := md2epub.EnsureIdentifier(context.Background(), store, []byte("{}"), m)
	if err != nil || assigned {
		t.Fatalf("EnsureIdentifier() = %v, %v, want false, nil", assigned, err)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestEnsureIdentifier_ReadOnly(t *testing.T) {
	t.Parallel()

	store := newMemStore("json", `{"contents": "a.md"}`)
	store.readOnly = true
	m := mustNormalize(t, &md2epub.RawManifest{Contents: md2epub.StringList{"a.md"}})

	assigned, err := md2epub.EnsureIdentifier(context.Background(), store, []byte(`{"contents": "a.md"}`), m)
	if !errors.Is(err, md2epub.ErrReadOnlyStore) {
		t.Fatalf("EnsureIdentifier() error = %v, want %v", err, md2epub.ErrReadOnlyStore)
	}
	if !assigned || m.UUID == "" {
		t.Errorf("assigned, UUID = %v, %q, want identifier set for this run", assigned, m.UUID)
	}
}

func TestEnsureIdentifier_Errors(t *testing.T) {
	t.Parallel()

	fresh := func() *md2epub.Manifest {
		return mustNormalize(t, &md2epub.RawManifest{Contents: md2epub.StringList{"a.md"}})
	}

	tests := []struct {
		name    string
		store   md2epub.ManifestStore
		data    string
		m       *md2epub.Manifest
		wantErr error
	}{
		{name: "nil manifest", store: newMemStore("json", "{}"), data: "{}", m: nil, wantErr: md2epub.ErrNilManifest},
		{name: "nil store", store: nil, data: "{}", m: fresh(), wantErr: md2epub.ErrNilStore},
		{name: "JSON array", store: newMemStore("json", "[]"), data: "[]", m: fresh(), wantErr: md2epub.ErrNotObject},
		{name: "truncated JSON", store: newMemStore("json", `{"a": 1`), data: `{"a": 1`, m: fresh(), wantErr: md2epub.ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := md2epub.EnsureIdentifier(context.Background(), tt.store, []byte(tt.data), tt.m)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EnsureIdentifier() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerator_LoadManifest - Identifier stability across runs
// ---------------------------------------------------------------------------

func TestGenerator_LoadManifest(t *testing.T) {
	t.Parallel()

	store := newMemStore("json", `{"title": "The Book", "contents": ["a.md"]}`)
	g := mustGenerator(t)

	first, err := g.LoadManifest(context.Background(), store)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	second, err := g.LoadManifest(context.Background(), store)
	if err != nil {
		t.Fatalf("second LoadManifest() error = %v", err)
	}

	if first.UUID == "" || first.UUID != second.UUID {
		t.Errorf("UUIDs = %q, %q, want one stable identifier", first.UUID, second.UUID)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if first.Title != "The Book" || !first.Date.Equal(testNow) {
		t.Errorf("manifest = %+v", first)
	}
}

func TestGenerator_LoadManifest_ReadOnly(t *testing.T) {
	t.Parallel()

	store := newMemStore("yaml", "contents: a.md\n")
	store.readOnly = true
	g := mustGenerator(t)

	m, err := g.LoadManifest(context.Background(), store)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m.UUID == "" {
		t.Error("UUID is empty, want identifier for this run")
	}
}

func TestGenerator_LoadManifest_Errors(t *testing.T) {
	t.Parallel()

	g := mustGenerator(t)

	if _, err := g.LoadManifest(context.Background(), nil); !errors.Is(err, md2epub.ErrNilStore) {
		t.Errorf("LoadManifest(nil) error = %v, want %v", err, md2epub.ErrNilStore)
	}

	store := newMemStore("json", `{"contents": []}`)
	_, err := g.LoadManifest(context.Background(), store)
	if !errors.Is(err, md2epub.ErrInvalidManifest) {
		t.Errorf("LoadManifest() error = %v, want %v", err, md2epub.ErrInvalidManifest)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 for invalid manifest", store.saves)
	}
}
