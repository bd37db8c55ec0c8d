package catalog

import (
	"strings"
	"testing"
)

func TestAll_LoadsEmbeddedCatalog(t *testing.T) {
	foods := All()
	if len(foods) == 0 {
		t.Fatalf("All() returned no foods")
	}
	for i := 1; i < len(foods); i++ {
		prev, cur := foods[i-1], foods[i]
		if prev.Brand > cur.Brand || (prev.Brand == cur.Brand && prev.Name > cur.Name) {
			t.Fatalf("All() not sorted at %d: %q before %q", i, prev.DisplayName(), cur.DisplayName())
		}
	}

	foods[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Fatalf("All() should return a copy")
	}
}

func TestByIDAndCategory(t *testing.T) {
	f, ok := ByID("tetra-tetramin-flakes")
	if !ok {
		t.Fatalf("ByID(tetra-tetramin-flakes) not found")
	}
	if f.DisplayName() != "Tetra TetraMin Flakes" {
		t.Fatalf("DisplayName = %q, want Tetra TetraMin Flakes", f.DisplayName())
	}
	if _, ok := ByID("nope"); ok {
		t.Fatalf("ByID(nope) found, want missing")
	}
	for _, b := range ByCategory(CategoryBetta) {
		if b.Category != CategoryBetta {
			t.Fatalf("ByCategory(betta) returned %q", b.Category)
		}
	}
}

func TestParse_Validation(t *testing.T) {
	foods, err := Parse([]byte("foods:\n  - id: a\n    brand: X\n    name: Y\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if foods[0].Type != TypeOther || foods[0].Category != CategoryOther {
		t.Fatalf("defaults not applied: %#v", foods[0])
	}

	if _, err := Parse([]byte("foods:\n  - brand: X\n")); err == nil || !strings.Contains(err.Error(), "no id") {
		t.Fatalf("Parse err = %v, want missing id error", err)
	}
	if _, err := Parse([]byte("foods:\n  - id: a\n  - id: a\n")); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("Parse err = %v, want duplicate error", err)
	}
	if _, err := Parse([]byte("foods: [")); err == nil {
		t.Fatalf("Parse returned nil error for invalid yaml")
	}
}
