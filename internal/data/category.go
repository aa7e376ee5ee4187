package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category tags a pickup. Each category maps 1:1 to a PickupDescriptor.
type Category uint8

const (
	CategoryGemSmall Category = iota
	CategoryGemMedium
	CategoryGemLarge
	CategoryCoin
	CategoryFood
	CategoryBomb
	CategoryMagnet
	CategoryChest

	CategoryCount
)

var categoryNames = [CategoryCount]string{
	CategoryGemSmall:  "gem_small",
	CategoryGemMedium: "gem_medium",
	CategoryGemLarge:  "gem_large",
	CategoryCoin:      "coin",
	CategoryFood:      "food",
	CategoryBomb:      "bomb",
	CategoryMagnet:    "magnet",
	CategoryChest:     "chest",
}

func (c Category) String() string {
	if c < CategoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool { return c < CategoryCount }

// Kind is the effect family a category belongs to. Gem tiers share one kind.
type Kind uint8

const (
	KindGem Kind = iota
	KindCoin
	KindFood
	KindBomb
	KindMagnet
	KindChest
)

func (c Category) Kind() Kind {
	switch c {
	case CategoryGemSmall, CategoryGemMedium, CategoryGemLarge:
		return KindGem
	case CategoryCoin:
		return KindCoin
	case CategoryFood:
		return KindFood
	case CategoryBomb:
		return KindBomb
	case CategoryMagnet:
		return KindMagnet
	default:
		return KindChest
	}
}

// ParseCategory maps a YAML/config name to its Category.
func ParseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pickup category %q", s)
}

func (c *Category) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseCategory(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = parsed
	return nil
}

func (c Category) MarshalYAML() (any, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid pickup category %d", uint8(c))
	}
	return c.String(), nil
}
