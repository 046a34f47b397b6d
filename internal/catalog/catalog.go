// Package catalog holds the static exercise-variant knowledge base. It is
// loaded once at process start and never mutated afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/alexanderramin/repforge/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var embeddedVariants []byte

type fileSchema struct {
	Patterns map[domain.MovementPattern]patternSchema `yaml:"patterns"`
	Areas    map[string][]domain.MovementPattern       `yaml:"areas"`
}

type patternSchema struct {
	Muscles  []domain.MuscleGroup     `yaml:"muscles"`
	Stresses []string                 `yaml:"stresses"`
	Variants []domain.ExerciseVariant `yaml:"variants"`
}

// Catalog is an immutable, pattern-indexed view of the variant file.
type Catalog struct {
	byPattern map[domain.MovementPattern][]domain.ExerciseVariant
	byID      map[string]domain.ExerciseVariant
	muscles   map[domain.MovementPattern][]domain.MuscleGroup
	areas     map[string][]domain.MovementPattern
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded variant file.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedVariants)
		if err != nil {
			panic(fmt.Sprintf("embedded variant catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile parses a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML and validates it.
func Parse(data []byte) (*Catalog, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		byPattern: make(map[domain.MovementPattern][]domain.ExerciseVariant),
		byID:      make(map[string]domain.ExerciseVariant),
		muscles:   make(map[domain.MovementPattern][]domain.MuscleGroup),
		areas:     make(map[string][]domain.MovementPattern),
	}

	for _, p := range domain.AllPatterns {
		ps, ok := schema.Patterns[p]
		if !ok || len(ps.Variants) == 0 {
			return nil, fmt.Errorf("pattern %s has no variants", p)
		}
		if len(ps.Muscles) == 0 {
			return nil, fmt.Errorf("pattern %s has no muscle groups", p)
		}
		variants := make([]domain.ExerciseVariant, 0, len(ps.Variants))
		for _, v := range ps.Variants {
			v.Pattern = p
			if v.Stresses == nil {
				v.Stresses = ps.Stresses
			}
			if len(v.Equipment) == 0 {
				v.Equipment = []domain.Equipment{domain.EquipmentNone}
			}
			if err := validateVariant(v); err != nil {
				return nil, err
			}
			if _, dup := c.byID[v.ID]; dup {
				return nil, fmt.Errorf("duplicate variant id %q", v.ID)
			}
			c.byID[v.ID] = v
			variants = append(variants, v)
		}
		sort.SliceStable(variants, func(i, j int) bool {
			return variants[i].Difficulty < variants[j].Difficulty
		})
		c.byPattern[p] = variants
		c.muscles[p] = ps.Muscles
	}
	for p := range schema.Patterns {
		if !p.Valid() {
			return nil, fmt.Errorf("unknown pattern %q", p)
		}
	}
	for area, patterns := range schema.Areas {
		for _, p := range patterns {
			if !p.Valid() {
				return nil, fmt.Errorf("area %s: unknown pattern %q", area, p)
			}
		}
		c.areas[area] = patterns
	}
	return c, nil
}

func validateVariant(v domain.ExerciseVariant) error {
	if v.ID == "" || v.Name == "" {
		return fmt.Errorf("pattern %s: variant missing id or name", v.Pattern)
	}
	if v.Difficulty < 1 || v.Difficulty > 10 {
		return fmt.Errorf("variant %s: difficulty %d outside [1,10]", v.ID, v.Difficulty)
	}
	switch v.Location {
	case domain.LocationHome, domain.LocationGym, domain.LocationBoth:
	default:
		return fmt.Errorf("variant %s: unknown location %q", v.ID, v.Location)
	}
	return nil
}

// ForPattern returns the pattern's variants ordered by ascending difficulty.
func (c *Catalog) ForPattern(p domain.MovementPattern) []domain.ExerciseVariant {
	src := c.byPattern[p]
	out := make([]domain.ExerciseVariant, len(src))
	copy(out, src)
	return out
}

func (c *Catalog) Variant(id string) (domain.ExerciseVariant, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Available filters a pattern's variants to those usable at the location
// with the given equipment.
func (c *Catalog) Available(p domain.MovementPattern, where domain.Location, equipment map[domain.Equipment]bool) []domain.ExerciseVariant {
	var out []domain.ExerciseVariant
	for _, v := range c.byPattern[p] {
		if v.Location.Supports(where) && v.NeedsOnly(equipment) {
			out = append(out, v)
		}
	}
	return out
}

// Lowest returns the easiest usable variant for the pattern.
func (c *Catalog) Lowest(p domain.MovementPattern, where domain.Location, equipment map[domain.Equipment]bool) (domain.ExerciseVariant, bool) {
	avail := c.Available(p, where, equipment)
	if len(avail) == 0 {
		return domain.ExerciseVariant{}, false
	}
	return avail[0], true
}

// Next returns the easiest usable variant strictly harder than current.
func (c *Catalog) Next(current domain.ExerciseVariant, where domain.Location, equipment map[domain.Equipment]bool) (domain.ExerciseVariant, bool) {
	for _, v := range c.Available(current.Pattern, where, equipment) {
		if v.Difficulty > current.Difficulty {
			return v, true
		}
	}
	return domain.ExerciseVariant{}, false
}

// MuscleGroups returns the primary muscle groups a pattern trains.
func (c *Catalog) MuscleGroups(p domain.MovementPattern) []domain.MuscleGroup {
	return c.muscles[p]
}

// PatternsForGroup returns every pattern whose primary muscles include g.
func (c *Catalog) PatternsForGroup(g domain.MuscleGroup) []domain.MovementPattern {
	var out []domain.MovementPattern
	for _, p := range domain.AllPatterns {
		for _, m := range c.muscles[p] {
			if m == g {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// PatternsForArea returns the patterns that load a body area. Unknown areas
// map to no pattern.
func (c *Catalog) PatternsForArea(area string) []domain.MovementPattern {
	return c.areas[area]
}

// KnownArea reports whether the catalog maps the body area.
func (c *Catalog) KnownArea(area string) bool {
	_, ok := c.areas[area]
	return ok
}

// GroupsForArea returns the muscle groups trained by patterns loading the area.
func (c *Catalog) GroupsForArea(area string) []domain.MuscleGroup {
	seen := make(map[domain.MuscleGroup]bool)
	var out []domain.MuscleGroup
	for _, p := range c.areas[area] {
		for _, g := range c.muscles[p] {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out
}
