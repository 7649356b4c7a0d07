// Package photo holds categorized listing photos and resolves which photo fills a visual slot
package photo

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

type Category string

const (
	Facade     Category = "facade"
	LivingRoom Category = "living-room"
	Bedroom    Category = "bedroom"
	Kitchen    Category = "kitchen"
	Bathroom   Category = "bathroom"
	Exterior   Category = "exterior"
	Other      Category = "other"
)

// DefaultLabel is shown for photos that cannot be matched back to the catalog.
const DefaultLabel = "Ambiente"

var labels = map[Category]string{
	Facade:     "Fachada",
	LivingRoom: "Sala",
	Bedroom:    "Quarto",
	Kitchen:    "Cozinha",
	Bathroom:   "Banheiro",
	Exterior:   "Área externa",
	Other:      "Ambiente",
}

var validCategories = mapset.NewSet(
	Facade, LivingRoom, Bedroom, Kitchen, Bathroom, Exterior, Other,
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{Facade, LivingRoom, Bedroom, Kitchen, Bathroom, Exterior, Other}
}

func (c Category) Valid() bool {
	return validCategories.Contains(c)
}

// Label returns the human label for the category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return DefaultLabel
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown photo category: %q", s)
	}
	return c, nil
}

type CategorizedPhoto struct {
	URL      string   `json:"url"`
	Category Category `json:"category"`
	Order    int      `json:"order"`
}
