package slides

import (
	"fmt"
	"testing"

	"github.com/aouyang1/vitrine/photo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(seq Sequence) []string {
	out := make([]string, 0, seq.Len())
	for _, s := range seq.Slides {
		out = append(out, s.Name)
	}
	return out
}

func fullCatalog() *photo.Catalog {
	cats := []photo.Category{
		photo.Facade, photo.LivingRoom, photo.LivingRoom, photo.Bedroom, photo.Bedroom,
		photo.Kitchen, photo.Bathroom, photo.Exterior, photo.Other,
	}
	photos := make([]photo.CategorizedPhoto, 0, len(cats))
	for i, c := range cats {
		photos = append(photos, photo.CategorizedPhoto{
			URL:      fmt.Sprintf("https://cdn.example.com/%d-%s.jpg", i, c),
			Category: c,
			Order:    i,
		})
	}
	return photo.NewCatalog(photos)
}

func sampleProperty() PropertyData {
	return PropertyData{
		Title:        "Casa no Jardim Europa",
		PropertyType: "Casa térrea",
		Address:      Address{Street: "Rua das Flores", Number: "120", Neighborhood: "Jardim Europa", City: "Campinas", State: "SP"},
		Price:        "R$ 850.000,00",
		Bedrooms:     3,
		Suites:       1,
		Bathrooms:    2,
		Parking:      2,
		Area:         "180",
		Features:     []string{"Piscina", "Churrasqueira"},
		Description:  "Casa ampla com quintal.",
		Contact:      Contact{Name: "Ana", Phone: "(19) 99999-0000"},

		AcceptsFinancing: true,
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	data := sampleProperty()
	for _, format := range []Format{Feed, Story} {
		t.Run(string(format), func(t *testing.T) {
			a := Build(data, fullCatalog(), format)
			b := Build(data, fullCatalog(), format)
			assert.Equal(t, a, b)
		})
	}
}

func TestBuildIsTotal(t *testing.T) {
	inputs := []struct {
		name    string
		catalog *photo.Catalog
	}{
		{"nil catalog", nil},
		{"empty catalog", photo.NewCatalog(nil)},
		{"single photo", photo.NewCatalog([]photo.CategorizedPhoto{{URL: "https://cdn.example.com/a.jpg", Category: photo.Other}})},
	}
	for _, in := range inputs {
		for _, format := range []Format{Feed, Story, Format("bogus")} {
			t.Run(in.name+"/"+string(format), func(t *testing.T) {
				var seq Sequence
				require.NotPanics(t, func() { seq = Build(PropertyData{}, in.catalog, format) })
				require.NotZero(t, seq.Len())
				for _, s := range seq.Slides {
					assert.NotEmpty(t, s.Name)
					inputs := s.Render.Inputs
					hasContent := len(inputs.Photos) > 0 || inputs.Title != "" || inputs.Body != "" || len(inputs.Lines) > 0
					assert.True(t, hasContent || inputs.Placeholder, "slide %q has neither content nor placeholder", s.Name)
				}

				require.NotPanics(t, func() { seq = BuildManagement(ManagementData{}, in.catalog, format) })
				require.NotZero(t, seq.Len())
			})
		}
	}
}

func TestFeedWithEmptyCatalogKeepsMandatorySlides(t *testing.T) {
	seq := Build(PropertyData{}, photo.NewCatalog(nil), Feed)

	assert.Equal(t, []string{"Capa", "Diferenciais", "Descrição", "Contato"}, names(seq))
	cover := seq.Slides[0].Render
	assert.Equal(t, TemplateCover, cover.Template)
	assert.Equal(t, VariantPlaceholder, cover.Inputs.Variant)
	assert.Equal(t, AskForPrice, cover.Inputs.Price)
	assert.True(t, seq.Slides[1].Render.Inputs.Placeholder)
	assert.True(t, seq.Slides[2].Render.Inputs.Placeholder)
	assert.True(t, seq.Slides[3].Render.Inputs.Placeholder)
}

func TestPhotosWithoutURLDegradeToPlaceholder(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{{URL: "", Category: photo.Facade}})
	seq := Build(PropertyData{}, catalog, Feed)

	cover := seq.Slides[0].Render
	assert.Equal(t, VariantPlaceholder, cover.Inputs.Variant)
	assert.Empty(t, cover.Inputs.Photos)
}

func TestCoverFallsBackToExterior(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/kitchen.jpg", Category: photo.Kitchen, Order: 0},
		{URL: "https://cdn.example.com/outside.jpg?v=9", Category: photo.Exterior, Order: 1},
	})

	for _, format := range []Format{Feed, Story} {
		cover := Build(sampleProperty(), catalog, format).Slides[0]
		require.Len(t, cover.Render.Inputs.Photos, 1)
		assert.Equal(t, "https://cdn.example.com/outside.jpg?v=9", cover.Render.Inputs.Photos[0].URL)
		assert.Equal(t, "Área externa", cover.Render.Inputs.Photos[0].Label)
	}
}

func TestVariantThresholds(t *testing.T) {
	tests := []struct {
		photos int
		want   Variant
	}{
		{0, VariantPlaceholder},
		{1, VariantSingle},
		{2, VariantSplit},
		{3, VariantTriangle},
		{7, VariantTriangle},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d photos", tt.photos), func(t *testing.T) {
			photos := make([]photo.CategorizedPhoto, 0, tt.photos)
			for i := range tt.photos {
				photos = append(photos, photo.CategorizedPhoto{
					URL:      fmt.Sprintf("https://cdn.example.com/living-%d.jpg", i),
					Category: photo.LivingRoom,
					Order:    i,
				})
			}
			seq := Build(PropertyData{}, photo.NewCatalog(photos), Story)
			tour := seq.Slides[1]
			require.Equal(t, "Tour", tour.Name)
			assert.Equal(t, tt.want, tour.Render.Inputs.Variant)
			assert.Len(t, tour.Render.Inputs.Photos, min(tt.photos, 3))
		})
	}

	assert.Equal(t, VariantGrid, ChooseVariant(5, VariantGrid))
	assert.Equal(t, VariantTriangle, ChooseVariant(5, Variant("")))
}

func TestFeedTwoPhotosYieldSplit(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/living.jpg", Category: photo.LivingRoom, Order: 0},
		{URL: "https://cdn.example.com/other.jpg", Category: photo.Other, Order: 1},
	})
	seq := Build(PropertyData{}, catalog, Feed)

	require.Equal(t, "Sala de estar", seq.Slides[1].Name)
	living := seq.Slides[1].Render.Inputs
	assert.Equal(t, VariantSplit, living.Variant)
	assert.Equal(t, []Photo{
		{URL: "https://cdn.example.com/living.jpg", Label: "Sala"},
		{URL: "https://cdn.example.com/other.jpg", Label: "Ambiente"},
	}, living.Photos)
}

func TestFeedGridThreshold(t *testing.T) {
	small := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/1.jpg", Category: photo.LivingRoom, Order: 0},
		{URL: "https://cdn.example.com/2.jpg", Category: photo.LivingRoom, Order: 1},
		{URL: "https://cdn.example.com/3.jpg", Category: photo.Kitchen, Order: 2},
	})
	seq := Build(PropertyData{}, small, Feed)
	assert.Equal(t, VariantTriangle, seq.Slides[1].Render.Inputs.Variant)

	seq = Build(PropertyData{}, fullCatalog(), Feed)
	assert.Equal(t, VariantGrid, seq.Slides[1].Render.Inputs.Variant)
}

func TestFeedSkipsMissingCategoriesOnSparseCatalog(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/facade.jpg", Category: photo.Facade, Order: 0},
		{URL: "https://cdn.example.com/kitchen.jpg", Category: photo.Kitchen, Order: 1},
	})
	seq := Build(sampleProperty(), catalog, Feed)
	assert.Equal(t, []string{"Capa", "Cozinha", "Diferenciais", "Descrição", "Contato"}, names(seq))
}

func TestFeedPadsMissingCategoriesOnLargeCatalog(t *testing.T) {
	photos := make([]photo.CategorizedPhoto, 0, 5)
	for i := range 5 {
		photos = append(photos, photo.CategorizedPhoto{
			URL:      fmt.Sprintf("https://cdn.example.com/%d.jpg", i),
			Category: photo.Other,
			Order:    i,
		})
	}
	seq := Build(sampleProperty(), photo.NewCatalog(photos), Feed)
	assert.Equal(t, []string{
		"Capa", "Sala de estar", "Quartos", "Cozinha", "Área externa", "Diferenciais", "Descrição", "Contato",
	}, names(seq))
}

func TestFeedFullCatalogPrefersExterior(t *testing.T) {
	seq := Build(sampleProperty(), fullCatalog(), Feed)

	require.Equal(t, []string{
		"Capa", "Sala de estar", "Quartos", "Cozinha", "Área externa", "Diferenciais", "Descrição", "Contato",
	}, names(seq))
	assert.LessOrEqual(t, seq.Len(), 8)

	ext := seq.Slides[4]
	assert.Equal(t, photo.Exterior, ext.SourceCategory)
	assert.Equal(t, "https://cdn.example.com/7-exterior.jpg", ext.Render.Inputs.Photos[0].URL)

	cover := seq.Slides[0]
	assert.Equal(t, "https://cdn.example.com/0-facade.jpg", cover.Render.Inputs.Photos[0].URL)
	assert.Equal(t, "R$ 850.000,00", cover.Render.Inputs.Price)
	assert.Equal(t, []string{"Aceita financiamento"}, cover.Render.Inputs.Badges)
}

func TestFeedBathroomWhenNoExterior(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/bath.jpg", Category: photo.Bathroom, Order: 0},
	})
	seq := Build(PropertyData{}, catalog, Feed)
	assert.Equal(t, []string{"Capa", "Banheiro", "Diferenciais", "Descrição", "Contato"}, names(seq))
	assert.Equal(t, photo.Bathroom, seq.Slides[1].SourceCategory)
}

func TestGalleryLabelsComeFromCatalog(t *testing.T) {
	// living room photo padded into the bedroom slot keeps its own label
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/bed.jpg", Category: photo.Bedroom, Order: 0},
		{URL: "https://cdn.example.com/living.jpg", Category: photo.LivingRoom, Order: 1},
	})
	seq := Build(PropertyData{}, catalog, Feed)

	var bedrooms Definition
	for _, s := range seq.Slides {
		if s.Name == "Quartos" {
			bedrooms = s
		}
	}
	require.Equal(t, photo.Bedroom, bedrooms.SourceCategory)
	assert.Equal(t, []Photo{
		{URL: "https://cdn.example.com/bed.jpg", Label: "Quarto"},
		{URL: "https://cdn.example.com/living.jpg", Label: "Sala"},
	}, bedrooms.Render.Inputs.Photos)
}

func TestStoryWithoutPrice(t *testing.T) {
	catalog := photo.NewCatalog([]photo.CategorizedPhoto{
		{URL: "https://cdn.example.com/facade.jpg", Category: photo.Facade, Order: 0},
	})
	data := sampleProperty()
	data.Price = ""

	seq := Build(data, catalog, Story)

	require.Equal(t, []string{"Capa", "Tour", "Ambientes", "Valores", "Contato"}, names(seq))
	assert.Equal(t, "https://cdn.example.com/facade.jpg", seq.Slides[0].Render.Inputs.Photos[0].URL)

	pricing := seq.Slides[3].Render
	assert.Equal(t, TemplatePricing, pricing.Template)
	assert.Equal(t, AskForPrice, pricing.Inputs.Price)
	assert.True(t, pricing.Inputs.Placeholder)
}

func TestStoryAlwaysHasFiveSlides(t *testing.T) {
	seq := Build(PropertyData{}, photo.NewCatalog(nil), Story)
	require.Equal(t, 5, seq.Len())
	assert.Equal(t, VariantPlaceholder, seq.Slides[1].Render.Inputs.Variant)
	assert.Equal(t, VariantPlaceholder, seq.Slides[2].Render.Inputs.Variant)

	seq = Build(sampleProperty(), fullCatalog(), Story)
	require.Equal(t, 5, seq.Len())
	assert.Equal(t, VariantTriangle, seq.Slides[1].Render.Inputs.Variant)
	assert.Equal(t, VariantGrid, seq.Slides[2].Render.Inputs.Variant)
	assert.Len(t, seq.Slides[2].Render.Inputs.Photos, 4)
}

func TestSpecLines(t *testing.T) {
	lines := specLines(PropertyData{Bedrooms: 1, Suites: 1, Bathrooms: 2, Parking: 1, Area: "75"})
	assert.Equal(t, []string{"1 quarto (1 suíte)", "2 banheiros", "1 vaga", "75 m²"}, lines)
	assert.Empty(t, specLines(PropertyData{}))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "Rua A, 10 · Centro · Campinas - SP",
		formatAddress(Address{Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "Campinas", State: "SP"}))
	assert.Equal(t, "SP", formatAddress(Address{State: "SP"}))
	assert.Empty(t, formatAddress(Address{}))
}

func TestBuildManagement(t *testing.T) {
	data := ManagementData{
		CompanyName: "Lar Gestão",
		Services:    []string{"Administração de aluguel", "Vistoria"},
		Contact:     Contact{Phone: "(11) 4000-0000"},
	}

	feed := BuildManagement(data, photo.NewCatalog(nil), Feed)
	assert.Equal(t, []string{"Capa", "Serviços", "Contato"}, names(feed))

	data.Differentials = []string{"Garantia de aluguel"}
	feed = BuildManagement(data, fullCatalog(), Feed)
	assert.Equal(t, []string{"Capa", "Serviços", "Diferenciais", "Nossos imóveis", "Contato"}, names(feed))

	story := BuildManagement(ManagementData{}, photo.NewCatalog(nil), Story)
	assert.Equal(t, []string{"Capa", "Nossos imóveis", "Serviços", "Sobre nós", "Contato"}, names(story))
	assert.Equal(t, defaultCompanyTitle, story.Slides[0].Render.Inputs.Title)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("story")
	require.NoError(t, err)
	assert.Equal(t, Story, f)
	w, h := f.Size()
	assert.Equal(t, [2]int{1080, 1920}, [2]int{w, h})

	_, err = ParseFormat("reel")
	assert.Error(t, err)
}
