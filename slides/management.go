package slides

import (
	"strings"

	"github.com/aouyang1/vitrine/photo"
)

const defaultCompanyTitle = "Administração de imóveis"

// BuildManagement assembles the slide sequence advertising a property
// management service. Like Build it is total over its inputs.
func BuildManagement(data ManagementData, catalog *photo.Catalog, format Format) Sequence {
	if catalog == nil {
		catalog = photo.NewCatalog(nil)
	}
	b := builder{catalog: catalog, format: format}
	if format == Story {
		return Sequence{Format: Story, Slides: b.managementStory(data)}
	}
	b.format = Feed
	return Sequence{Format: Feed, Slides: b.managementFeed(data)}
}

func (b builder) managementFeed(data ManagementData) []Definition {
	slides := []Definition{
		b.managementCover(data),
		b.list("Serviços", data.Services, placeholderServices),
	}
	if len(nonEmpty(data.Differentials)) > 0 {
		slides = append(slides, b.list("Diferenciais", data.Differentials, ""))
	}
	if s, ok := b.gallery("Nossos imóveis", photo.Facade,
		[]photo.Category{photo.Facade, photo.LivingRoom, photo.Exterior}, 3, b.feedMultiVariant()); ok {
		slides = append(slides, s)
	}
	return append(slides, b.contact(data.Contact, "Fale com a gente"))
}

func (b builder) managementStory(data ManagementData) []Definition {
	showcase, _ := b.gallery("Nossos imóveis", "",
		[]photo.Category{photo.Facade, photo.LivingRoom, photo.Exterior}, 3, VariantTriangle)

	closing := b.description("Sobre nós", data.Description, placeholderDescription)
	if len(nonEmpty(data.Differentials)) > 0 {
		closing = b.list("Diferenciais", data.Differentials, "")
	}

	return []Definition{
		b.managementCover(data),
		showcase,
		b.list("Serviços", data.Services, placeholderServices),
		closing,
		b.contact(data.Contact, "Fale com a gente"),
	}
}

func (b builder) managementCover(data ManagementData) Definition {
	in := b.inputs()
	in.Title = firstNonEmpty(data.CompanyName, defaultCompanyTitle)
	in.Subtitle = strings.TrimSpace(data.Headline)
	if place := formatAddress(Address{City: data.City, State: data.State}); place != "" {
		in.Lines = []string{place}
	}
	b.setPhotos(&in, b.resolve(photo.SlotFacade), VariantSingle)

	return Definition{
		Name:           "Capa",
		SourceCategory: photo.Facade,
		Render:         Render{Template: TemplateCover, Inputs: in},
	}
}

func (b builder) list(name string, items []string, placeholder string) Definition {
	in := b.inputs()
	in.Title = name
	in.Lines = nonEmpty(items)
	if len(in.Lines) == 0 {
		in.Lines = []string{placeholder}
		in.Placeholder = true
	}
	b.setPhotos(&in, b.resolve(photo.Slot{Category: photo.Other, Fallback: photo.LivingRoom, Position: 1}), VariantSingle)

	return Definition{
		Name:   name,
		Render: Render{Template: TemplateFeatures, Inputs: in},
	}
}
