package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PickupDescriptor is the static configuration of one pickup category.
type PickupDescriptor struct {
	Category         Category `yaml:"category"`
	Prefab           string   `yaml:"prefab"`             // visual reference
	AffectedByMagnet bool     `yaml:"affected_by_magnet"` // tweened to the player and swept by collect-all
	CooldownMs       int      `yaml:"cooldown_ms"`        // minimum gap between spawns
	Value            float64  `yaml:"value"`              // exp, gold, heal, damage or chest tier
	SpawnWeight      int      `yaml:"spawn_weight"`       // relative weight for the simulated spawner
}

// UnmarshalYAML decodes a descriptor and requires the category key, whose
// zero value would otherwise silently read as gem_small.
func (d *PickupDescriptor) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: pickup entry is not a mapping", n.Line)
	}
	found := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "category" {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("line %d: pickup entry without category", n.Line)
	}
	type plain PickupDescriptor
	return n.Decode((*plain)(d))
}

// Cooldown returns the per-category spawn cooldown.
func (d *PickupDescriptor) Cooldown() time.Duration {
	return time.Duration(d.CooldownMs) * time.Millisecond
}

type pickupListFile struct {
	Pickups []PickupDescriptor `yaml:"pickups"`
}

// PickupTable holds all pickup descriptors indexed by category.
type PickupTable struct {
	byCategory [CategoryCount]*PickupDescriptor
	count      int
}

// Get returns the descriptor for a category, or nil if none defined.
func (t *PickupTable) Get(c Category) *PickupDescriptor {
	if !c.Valid() {
		return nil
	}
	return t.byCategory[c]
}

// Count returns the number of defined categories.
func (t *PickupTable) Count() int {
	return t.count
}

// All returns defined descriptors in category order.
func (t *PickupTable) All() []*PickupDescriptor {
	out := make([]*PickupDescriptor, 0, t.count)
	for _, d := range t.byCategory {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// NewPickupTable builds a table from descriptors, rejecting duplicates.
func NewPickupTable(descs []PickupDescriptor) (*PickupTable, error) {
	t := &PickupTable{}
	for i := range descs {
		d := descs[i]
		if !d.Category.Valid() {
			return nil, fmt.Errorf("invalid pickup category %d", uint8(d.Category))
		}
		if t.byCategory[d.Category] != nil {
			return nil, fmt.Errorf("duplicate pickup category %s", d.Category)
		}
		if d.CooldownMs < 0 {
			return nil, fmt.Errorf("pickup %s: negative cooldown", d.Category)
		}
		t.byCategory[d.Category] = &d
		t.count++
	}
	return t, nil
}

// LoadPickupTable loads pickup descriptors from a YAML file.
func LoadPickupTable(path string) (*PickupTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pickup_list: %w", err)
	}
	var f pickupListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse pickup_list: %w", err)
	}
	t, err := NewPickupTable(f.Pickups)
	if err != nil {
		return nil, fmt.Errorf("pickup_list: %w", err)
	}
	return t, nil
}
