package photo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []CategorizedPhoto {
	return []CategorizedPhoto{
		{URL: "https://cdn.example.com/k2.jpg", Category: Kitchen, Order: 4},
		{URL: "https://cdn.example.com/living.jpg", Category: LivingRoom, Order: 1},
		{URL: "https://cdn.example.com/k1.jpg", Category: Kitchen, Order: 2},
		{URL: "https://cdn.example.com/ext.jpg", Category: Exterior, Order: 0},
		{URL: "https://cdn.example.com/bed.jpg", Category: Bedroom, Order: 3},
	}
}

func TestResolveUsesLowestOrderInCategory(t *testing.T) {
	c := NewCatalog(fixture())

	url, ok := c.Resolve(SlotKitchen)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/k1.jpg", url)
}

func TestResolveFacadeFallsBackToExterior(t *testing.T) {
	c := NewCatalog([]CategorizedPhoto{
		{URL: "https://cdn.example.com/ext.jpg", Category: Exterior, Order: 3},
		{URL: "https://cdn.example.com/room.jpg", Category: Other, Order: 0},
	})

	url, ok := c.Resolve(SlotFacade)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/ext.jpg", url)
}

func TestResolveFallsBackToPosition(t *testing.T) {
	c := NewCatalog(fixture())

	// no bathroom and no secondary category, position 4 in order is k2
	url, ok := c.Resolve(SlotBathroom)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/k2.jpg", url)

	// position past the end uses the first photo
	url, ok = c.Resolve(Slot{Category: Bathroom, Position: 42})
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/ext.jpg", url)
}

func TestResolveEmptyCatalog(t *testing.T) {
	for _, c := range []*Catalog{NewCatalog(nil), nil} {
		url, ok := c.Resolve(SlotFacade)
		assert.False(t, ok)
		assert.Empty(t, url)
		assert.Nil(t, c.ResolveMany([]Category{Kitchen}, 3))
		assert.Equal(t, DefaultLabel, c.LabelFor("https://cdn.example.com/x.jpg"))
	}
}

func TestCatalogOrderExtremes(t *testing.T) {
	c := NewCatalog([]CategorizedPhoto{
		{URL: "https://cdn.example.com/hi.jpg", Category: Other, Order: math.MaxInt},
		{URL: "https://cdn.example.com/lo.jpg", Category: Other, Order: -10},
		{URL: "https://cdn.example.com/min.jpg", Category: Other, Order: math.MinInt},
	})

	assert.Equal(t, []string{
		"https://cdn.example.com/min.jpg",
		"https://cdn.example.com/lo.jpg",
		"https://cdn.example.com/hi.jpg",
	}, c.URLs())
}

func TestCatalogSkipsPhotosWithoutURL(t *testing.T) {
	c := NewCatalog([]CategorizedPhoto{
		{URL: "", Category: Other, Order: 0},
		{URL: "https://cdn.example.com/b.jpg", Category: Kitchen, Order: 1},
	})
	assert.Equal(t, 1, c.Len())

	url, ok := c.Resolve(SlotFacade)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/b.jpg", url)

	empty := NewCatalog([]CategorizedPhoto{{URL: "", Category: Facade}})
	assert.Zero(t, empty.Len())
	url, ok = empty.Resolve(SlotFacade)
	assert.False(t, ok)
	assert.Empty(t, url)
	assert.Empty(t, empty.ResolveMany([]Category{Facade, Other}, 2))
}

func TestLabelForIgnoresQueryString(t *testing.T) {
	c := NewCatalog(fixture())

	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/living.jpg", "Sala"},
		{"https://cdn.example.com/living.jpg?v=123", "Sala"},
		{"https://cdn.example.com/bed.jpg?X-Amz-Signature=abc&X-Amz-Date=1#top", "Quarto"},
		{"https://cdn.example.com/unknown.jpg", DefaultLabel},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, c.LabelFor(tt.url))
			// repeated calls are stable
			assert.Equal(t, tt.want, c.LabelFor(tt.url))
		})
	}
}

func TestLabelForFirstOrderWins(t *testing.T) {
	c := NewCatalog([]CategorizedPhoto{
		{URL: "https://cdn.example.com/a.jpg?sig=2", Category: Kitchen, Order: 2},
		{URL: "https://cdn.example.com/a.jpg?sig=1", Category: Bathroom, Order: 1},
	})
	assert.Equal(t, "Banheiro", c.LabelFor("https://cdn.example.com/a.jpg"))
}

func TestResolveMany(t *testing.T) {
	c := NewCatalog(fixture())

	t.Run("preferred categories first then padding in order", func(t *testing.T) {
		got := c.ResolveMany([]Category{Kitchen, Bedroom}, 4)
		assert.Equal(t, []string{
			"https://cdn.example.com/k1.jpg",
			"https://cdn.example.com/bed.jpg",
			"https://cdn.example.com/ext.jpg",
			"https://cdn.example.com/living.jpg",
		}, got)
	})

	t.Run("same category twice takes the next unused photo", func(t *testing.T) {
		got := c.ResolveMany([]Category{Kitchen, Kitchen}, 2)
		assert.Equal(t, []string{
			"https://cdn.example.com/k1.jpg",
			"https://cdn.example.com/k2.jpg",
		}, got)
	})

	t.Run("short catalog yields short list", func(t *testing.T) {
		small := NewCatalog([]CategorizedPhoto{{URL: "https://cdn.example.com/only.jpg", Category: Other}})
		assert.Equal(t, []string{"https://cdn.example.com/only.jpg"}, small.ResolveMany([]Category{LivingRoom, Bedroom}, 3))
	})

	t.Run("urls differing only in query are one photo", func(t *testing.T) {
		dup := NewCatalog([]CategorizedPhoto{
			{URL: "https://cdn.example.com/a.jpg?v=1", Category: LivingRoom, Order: 0},
			{URL: "https://cdn.example.com/a.jpg?v=2", Category: LivingRoom, Order: 1},
		})
		assert.Len(t, dup.ResolveMany([]Category{LivingRoom}, 3), 1)
	})
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("living-room")
	require.NoError(t, err)
	assert.Equal(t, LivingRoom, c)

	_, err = ParseCategory("garage")
	assert.Error(t, err)
}
