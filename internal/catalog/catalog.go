// Package catalog holds the bundled fish food catalog. Entries are static;
// the user's selection per refill is persisted by the storage package.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Type classifies the physical form of a food.
type Type string

const (
	TypeFlakes      Type = "flakes"
	TypePellets     Type = "pellets"
	TypeGranules    Type = "granules"
	TypeFreezeDried Type = "freeze-dried"
	TypeOther       Type = "other"
)

// Category classifies the fish a food is meant for.
type Category string

const (
	CategoryTropical Category = "tropical"
	CategoryBetta    Category = "betta"
	CategoryCichlid  Category = "cichlid"
	CategoryGoldfish Category = "goldfish"
	CategoryLarge    Category = "large"
	CategoryOther    Category = "other"
)

// Food is a catalog entry. The json tags match the persisted selection format.
type Food struct {
	ID          string   `json:"id" yaml:"id"`
	Brand       string   `json:"brand" yaml:"brand"`
	Name        string   `json:"name" yaml:"name"`
	Type        Type     `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Image       *string  `json:"image" yaml:"image"`
	Category    Category `json:"category" yaml:"category"`
}

// DisplayName is the only representation of a food the device ever receives.
func (f Food) DisplayName() string {
	return strings.TrimSpace(f.Brand + " " + f.Name)
}

//go:embed foods.yaml
var foodsYAML []byte

var (
	loadOnce sync.Once
	foods    []Food
	loadErr  error
)

// Parse decodes a catalog document.
func Parse(raw []byte) ([]Food, error) {
	var doc struct {
		Foods []Food `yaml:"foods"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Foods))
	for i, f := range doc.Foods {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			return nil, fmt.Errorf("parse catalog: entry %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate id %q", id)
		}
		seen[id] = struct{}{}
		if f.Type == "" {
			doc.Foods[i].Type = TypeOther
		}
		if f.Category == "" {
			doc.Foods[i].Category = CategoryOther
		}
	}
	return doc.Foods, nil
}

func load() ([]Food, error) {
	loadOnce.Do(func() {
		foods, loadErr = Parse(foodsYAML)
	})
	return foods, loadErr
}

// All returns the bundled catalog sorted by brand then name.
func All() []Food {
	list, err := load()
	if err != nil {
		return nil
	}
	out := make([]Food, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ByID looks up a catalog entry.
func ByID(id string) (Food, bool) {
	list, _ := load()
	for _, f := range list {
		if f.ID == id {
			return f, true
		}
	}
	return Food{}, false
}

// ByCategory filters All by category.
func ByCategory(cat Category) []Food {
	var out []Food
	for _, f := range All() {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}
