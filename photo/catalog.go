package photo

import (
	"cmp"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Slot describes a visual position and the chain used to fill it: the primary
// category, an optional secondary category, then a position in the ordered catalog.
type Slot struct {
	Category Category
	Fallback Category
	Position int
}

var (
	SlotFacade     = Slot{Category: Facade, Fallback: Exterior, Position: 0}
	SlotLivingRoom = Slot{Category: LivingRoom, Fallback: Other, Position: 1}
	SlotBedroom    = Slot{Category: Bedroom, Position: 2}
	SlotKitchen    = Slot{Category: Kitchen, Position: 3}
	SlotBathroom   = Slot{Category: Bathroom, Position: 4}
	SlotExterior   = Slot{Category: Exterior, Fallback: Facade, Position: 5}
)

// Catalog is an immutable, order-sorted view of a caller's photos. It is safe
// for concurrent use since nothing mutates it after NewCatalog returns.
type Catalog struct {
	photos  []CategorizedPhoto
	byNorm  map[string]Category
	byCateg map[Category][]CategorizedPhoto
}

func NewCatalog(photos []CategorizedPhoto) *Catalog {
	// photos without a url can never fill a slot
	sorted := slices.DeleteFunc(slices.Clone(photos), func(p CategorizedPhoto) bool {
		return p.URL == ""
	})
	slices.SortStableFunc(sorted, func(a, b CategorizedPhoto) int {
		return cmp.Compare(a.Order, b.Order)
	})

	c := &Catalog{
		photos:  sorted,
		byNorm:  make(map[string]Category, len(sorted)),
		byCateg: make(map[Category][]CategorizedPhoto),
	}
	for _, p := range sorted {
		// first photo in order wins so a normalized URL maps to exactly one label
		norm := NormalizeURL(p.URL)
		if _, ok := c.byNorm[norm]; !ok {
			c.byNorm[norm] = p.Category
		}
		c.byCateg[p.Category] = append(c.byCateg[p.Category], p)
	}
	return c
}

// Len is the total number of photos in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.photos)
}

// Photos returns a copy of the catalog in order.
func (c *Catalog) Photos() []CategorizedPhoto {
	if c == nil {
		return nil
	}
	return slices.Clone(c.photos)
}

// URLs returns every photo URL in order.
func (c *Catalog) URLs() []string {
	if c == nil {
		return nil
	}
	urls := make([]string, 0, len(c.photos))
	for _, p := range c.photos {
		urls = append(urls, p.URL)
	}
	return urls
}

// Count returns how many photos are tagged with the category.
func (c *Catalog) Count(category Category) int {
	if c == nil {
		return 0
	}
	return len(c.byCateg[category])
}

func (c *Catalog) Has(category Category) bool {
	return c.Count(category) > 0
}

// First returns the lowest-order photo tagged with category.
func (c *Catalog) First(category Category) (string, bool) {
	if c == nil || category == "" {
		return "", false
	}
	photos := c.byCateg[category]
	if len(photos) == 0 {
		return "", false
	}
	return photos[0].URL, true
}

// At returns the photo at position in the ordered catalog. Positions past the
// end fall back to the first photo.
func (c *Catalog) At(position int) (string, bool) {
	if c.Len() == 0 {
		return "", false
	}
	if position < 0 || position >= len(c.photos) {
		position = 0
	}
	return c.photos[position].URL, true
}

// Resolve fills a slot. It returns false only when the catalog is empty.
func (c *Catalog) Resolve(slot Slot) (string, bool) {
	if url, ok := c.First(slot.Category); ok {
		return url, true
	}
	if url, ok := c.First(slot.Fallback); ok {
		return url, true
	}
	return c.At(slot.Position)
}

// LabelFor maps a photo URL back to the label of its category. Query strings
// and fragments are ignored on both sides.
func (c *Catalog) LabelFor(url string) string {
	if c == nil {
		return DefaultLabel
	}
	if category, ok := c.byNorm[NormalizeURL(url)]; ok {
		return category.Label()
	}
	return DefaultLabel
}

// ResolveMany picks up to count distinct photos, one per preferred category in
// order, then pads from the rest of the catalog in order. The result may be
// shorter than count.
func (c *Catalog) ResolveMany(preferred []Category, count int) []string {
	if c.Len() == 0 || count <= 0 {
		return nil
	}

	used := mapset.NewThreadUnsafeSet[string]()
	urls := make([]string, 0, count)
	take := func(p CategorizedPhoto) bool {
		norm := NormalizeURL(p.URL)
		if p.URL == "" || used.Contains(norm) {
			return false
		}
		used.Add(norm)
		urls = append(urls, p.URL)
		return true
	}

	for _, category := range preferred {
		if len(urls) == count {
			return urls
		}
		for _, p := range c.byCateg[category] {
			if take(p) {
				break
			}
		}
	}

	for _, p := range c.photos {
		if len(urls) == count {
			break
		}
		take(p)
	}
	return urls
}

// NormalizeURL strips the query string and fragment from a photo URL.
func NormalizeURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.TrimSpace(url)
}
