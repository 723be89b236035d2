package posts

import "fmt"

type CategoryKind string

const (
	KindTool     CategoryKind = "tool"
	KindMaterial CategoryKind = "material"
)

func ParseCategoryKind(s string) (CategoryKind, error) {
	switch CategoryKind(s) {
	case KindTool, KindMaterial:
		return CategoryKind(s), nil
	}
	return "", fmt.Errorf("unknown category kind %q", s)
}

type HarmfulToolCategory struct {
	ID       uint   `gorm:"primaryKey"`
	Category string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

type HarmfulMaterialCategory struct {
	ID       uint   `gorm:"primaryKey"`
	Category string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// Seeded after migrations; admins can add more.
var (
	DefaultToolCategories = []string{
		"knife",
		"saw",
		"axe",
		"power drill",
		"angle grinder",
		"soldering iron",
		"blowtorch",
		"nail gun",
	}
	DefaultMaterialCategories = []string{
		"acid",
		"bleach",
		"lye",
		"solvent",
		"epoxy resin",
		"spray paint",
		"glass",
		"fuel",
	}
)

// CategoryCatalog lists every known harmful category name.
type CategoryCatalog struct {
	Tools     []string `json:"tools"`
	Materials []string `json:"materials"`
}

// Unknown returns the names of kind that are not in the catalog.
func (c CategoryCatalog) Unknown(kind CategoryKind, names []string) []string {
	known := c.Tools
	if kind == KindMaterial {
		known = c.Materials
	}
	set := make(map[string]struct{}, len(known))
	for _, n := range known {
		set[n] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := set[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
