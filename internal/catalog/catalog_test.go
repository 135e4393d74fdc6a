package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"promptart/internal/domain"
)

func TestDefaultCatalogIsDense(t *testing.T) {
	c := Default()
	if c.Len() != 15 {
		t.Fatalf("Len() = %d, want 15", c.Len())
	}
	for i, rec := range c.List() {
		if rec.ID != i {
			t.Fatalf("record %d has id %d", i, rec.ID)
		}
	}
}

func TestByIDStable(t *testing.T) {
	c := Default()
	for id := 0; id < c.Len(); id++ {
		first, err := c.ByID(id)
		if err != nil {
			t.Fatalf("ByID(%d): %v", id, err)
		}
		for n := 0; n < 3; n++ {
			again, err := c.ByID(id)
			if err != nil {
				t.Fatalf("ByID(%d): %v", id, err)
			}
			if diff := cmp.Diff(first, again); diff != "" {
				t.Fatalf("ByID(%d) changed (-first +again):\n%s", id, diff)
			}
		}
	}
}

func TestByIDOutOfRange(t *testing.T) {
	c := Default()
	for _, id := range []int{-1, c.Len(), 999} {
		_, err := c.ByID(id)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("ByID(%d) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Text = "mutated"
	rec, _ := c.ByID(0)
	if rec.Text == "mutated" {
		t.Fatalf("List exposed internal storage")
	}
}

func TestByCategoryCaseInsensitive(t *testing.T) {
	c := Default()
	upper := c.ByCategory("NATURE")
	lower := c.ByCategory("nature")
	if diff := cmp.Diff(upper, lower); diff != "" {
		t.Fatalf("case mismatch (-upper +lower):\n%s", diff)
	}
	if len(lower) != 2 || lower[0].ID != 1 || lower[1].ID != 9 {
		t.Fatalf("unexpected nature prompts: %#v", lower)
	}
	if got := c.ByCategory("Fantasy"); len(got) != 4 {
		t.Fatalf("fantasy count = %d, want 4", len(got))
	}
	if got := c.ByCategory("unknown"); got == nil || len(got) != 0 {
		t.Fatalf("unknown category = %#v, want empty non-nil slice", got)
	}
}

func TestRandomCoversRange(t *testing.T) {
	c := Default()
	seen := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		rec := c.Random()
		if rec.ID < 0 || rec.ID >= c.Len() {
			t.Fatalf("Random() returned id %d outside [0,%d)", rec.ID, c.Len())
		}
		seen[rec.ID] = true
	}
	if len(seen) != c.Len() {
		t.Fatalf("Random() covered %d ids, want %d", len(seen), c.Len())
	}
}

func TestNewRejectsSparseIDs(t *testing.T) {
	_, err := New([]domain.PromptRecord{{ID: 0, Text: "a"}, {ID: 2, Text: "b"}})
	if err == nil {
		t.Fatalf("expected error for sparse ids")
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "prompts:\n  - id: 0\n    prompt: \"a red cube\"\n    category: Shapes\n    style: minimal\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []domain.PromptRecord{{ID: 0, Text: "a red cube", Category: "Shapes", Style: "minimal"}}
	if diff := cmp.Diff(want, c.List()); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
