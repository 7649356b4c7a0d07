package slides

import (
	"fmt"
	"strings"

	"github.com/aouyang1/vitrine/photo"
)

const (
	// SparseCatalogThreshold is the catalog size under which feed photo slides
	// without a matching category are dropped instead of padded.
	SparseCatalogThreshold = 5

	// GridCatalogThreshold is the catalog size from which feed multi-photo
	// slides use the grid layout instead of the triangle.
	GridCatalogThreshold = 8

	// AskForPrice replaces a missing price.
	AskForPrice = "Consulte"
)

const (
	placeholderFeatures    = "Consulte os diferenciais deste imóvel"
	placeholderDescription = "Entre em contato para mais informações sobre este imóvel."
	placeholderServices    = "Fale conosco e conheça nossos serviços"
	defaultPropertyTitle   = "Imóvel à venda"
	defaultContactTitle    = "Agende sua visita"
)

type builder struct {
	catalog *photo.Catalog
	format  Format
}

// Build assembles the slide sequence for a listing. It never fails: missing
// data or photos degrade to placeholder content or omitted feed slides.
// Calling it twice with the same inputs yields the same sequence.
func Build(data PropertyData, catalog *photo.Catalog, format Format) Sequence {
	if catalog == nil {
		catalog = photo.NewCatalog(nil)
	}
	b := builder{catalog: catalog, format: format}
	if format == Story {
		return Sequence{Format: Story, Slides: b.propertyStory(data)}
	}
	b.format = Feed
	return Sequence{Format: Feed, Slides: b.propertyFeed(data)}
}

func (b builder) propertyFeed(data PropertyData) []Definition {
	slides := []Definition{b.propertyCover(data)}

	if s, ok := b.gallery("Sala de estar", photo.LivingRoom,
		[]photo.Category{photo.LivingRoom, photo.LivingRoom, photo.Other}, 3, b.feedMultiVariant()); ok {
		slides = append(slides, s)
	}
	if s, ok := b.gallery("Quartos", photo.Bedroom,
		[]photo.Category{photo.Bedroom, photo.Bedroom, photo.Bedroom}, 3, b.feedMultiVariant()); ok {
		slides = append(slides, s)
	}
	if s, ok := b.room("Cozinha", photo.SlotKitchen); ok {
		slides = append(slides, s)
	}
	if s, ok := b.bathroomOrExterior(); ok {
		slides = append(slides, s)
	}

	return append(slides,
		b.propertyFeatures(data),
		b.description("Descrição", data.Description, placeholderDescription),
		b.contact(data.Contact, defaultContactTitle),
	)
}

func (b builder) propertyStory(data PropertyData) []Definition {
	tour, _ := b.gallery("Tour", "",
		[]photo.Category{photo.LivingRoom, photo.Bedroom, photo.Kitchen}, 3, VariantTriangle)
	ambient, _ := b.gallery("Ambientes", "",
		[]photo.Category{photo.Kitchen, photo.Bathroom, photo.Exterior, photo.Other}, 4, VariantGrid)

	return []Definition{
		b.propertyCover(data),
		tour,
		ambient,
		b.pricing(data),
		b.contact(data.Contact, defaultContactTitle),
	}
}

func (b builder) propertyCover(data PropertyData) Definition {
	in := b.inputs()
	in.Title = firstNonEmpty(data.Title, data.PropertyType, defaultPropertyTitle)
	in.Subtitle = formatAddress(data.Address)
	in.Price = priceOrAsk(data.Price)
	in.Badges = badges(data)
	b.setPhotos(&in, b.resolve(photo.SlotFacade), VariantSingle)

	return Definition{
		Name:           "Capa",
		SourceCategory: photo.Facade,
		Render:         Render{Template: TemplateCover, Inputs: in},
	}
}

// gallery builds a multi-photo slide. In feed format the slide is dropped when
// the catalog is sparse and nothing is tagged with source.
func (b builder) gallery(name string, source photo.Category, preferred []photo.Category, count int, multi Variant) (Definition, bool) {
	if b.format == Feed && b.sparseWithout(source) {
		return Definition{}, false
	}

	in := b.inputs()
	in.Title = name
	b.setPhotos(&in, b.catalog.ResolveMany(preferred, count), multi)

	return Definition{
		Name:           name,
		SourceCategory: source,
		Render:         Render{Template: TemplateGallery, Inputs: in},
	}, true
}

// room builds a single-photo slide for one slot, following the same skip rule
// as gallery.
func (b builder) room(name string, slot photo.Slot) (Definition, bool) {
	if b.format == Feed && b.sparseWithout(slot.Category) {
		return Definition{}, false
	}

	in := b.inputs()
	in.Title = name
	b.setPhotos(&in, b.resolve(slot), VariantSingle)

	return Definition{
		Name:           name,
		SourceCategory: slot.Category,
		Render:         Render{Template: TemplateRoom, Inputs: in},
	}, true
}

// bathroomOrExterior prefers the exterior when both categories are tagged.
func (b builder) bathroomOrExterior() (Definition, bool) {
	switch {
	case b.catalog.Has(photo.Exterior):
		return b.room(photo.Exterior.Label(), photo.SlotExterior)
	case b.catalog.Has(photo.Bathroom):
		return b.room(photo.Bathroom.Label(), photo.SlotBathroom)
	}
	return b.room(photo.Exterior.Label(), photo.SlotExterior)
}

func (b builder) propertyFeatures(data PropertyData) Definition {
	in := b.inputs()
	in.Title = "Diferenciais"
	in.Lines = append(specLines(data), nonEmpty(data.Features)...)
	in.Badges = badges(data)
	if len(in.Lines) == 0 {
		in.Lines = []string{placeholderFeatures}
		in.Placeholder = true
	}
	b.setPhotos(&in, b.resolve(photo.Slot{Category: photo.Other, Fallback: photo.LivingRoom, Position: 6}), VariantSingle)

	return Definition{
		Name:   "Diferenciais",
		Render: Render{Template: TemplateFeatures, Inputs: in},
	}
}

func (b builder) description(name, text, placeholder string) Definition {
	in := b.inputs()
	in.Title = name
	in.Body = strings.TrimSpace(text)
	if in.Body == "" {
		in.Body = placeholder
		in.Placeholder = true
	}
	in.Variant = VariantPlaceholder

	return Definition{
		Name:   name,
		Render: Render{Template: TemplateDescription, Inputs: in},
	}
}

func (b builder) pricing(data PropertyData) Definition {
	in := b.inputs()
	in.Title = "Valores"
	in.Price = priceOrAsk(data.Price)
	in.Placeholder = strings.TrimSpace(data.Price) == ""
	if fee := strings.TrimSpace(data.CondoFee); fee != "" {
		in.Lines = append(in.Lines, "Condomínio: "+fee)
	}
	if tax := strings.TrimSpace(data.PropertyTax); tax != "" {
		in.Lines = append(in.Lines, "IPTU: "+tax)
	}
	in.Lines = append(in.Lines, specLines(data)...)
	in.Badges = badges(data)
	in.Variant = VariantPlaceholder

	return Definition{
		Name:   "Valores",
		Render: Render{Template: TemplatePricing, Inputs: in},
	}
}

func (b builder) contact(c Contact, title string) Definition {
	in := b.inputs()
	in.Title = title
	in.Contact = c
	if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Phone) == "" && strings.TrimSpace(c.Email) == "" {
		in.Placeholder = true
	}
	b.setPhotos(&in, b.resolve(photo.SlotFacade), VariantSingle)

	return Definition{
		Name:   "Contato",
		Render: Render{Template: TemplateContact, Inputs: in},
	}
}

func (b builder) inputs() Inputs {
	return Inputs{Format: b.format}
}

func (b builder) resolve(slot photo.Slot) []string {
	if url, ok := b.catalog.Resolve(slot); ok {
		return []string{url}
	}
	return nil
}

// setPhotos labels urls through the catalog and picks the layout variant from
// how many distinct photos were resolved.
func (b builder) setPhotos(in *Inputs, urls []string, multi Variant) {
	in.Photos = make([]Photo, 0, len(urls))
	for _, url := range urls {
		in.Photos = append(in.Photos, Photo{URL: url, Label: b.catalog.LabelFor(url)})
	}
	in.Variant = ChooseVariant(len(in.Photos), multi)
}

func (b builder) sparseWithout(category photo.Category) bool {
	return !b.catalog.Has(category) && b.catalog.Len() < SparseCatalogThreshold
}

func (b builder) feedMultiVariant() Variant {
	if b.catalog.Len() >= GridCatalogThreshold {
		return VariantGrid
	}
	return VariantTriangle
}

// ChooseVariant maps a photo count to a layout. multi is used for three or
// more photos and should be VariantTriangle or VariantGrid.
func ChooseVariant(photos int, multi Variant) Variant {
	switch {
	case photos <= 0:
		return VariantPlaceholder
	case photos == 1:
		return VariantSingle
	case photos == 2:
		return VariantSplit
	}
	if multi != VariantTriangle && multi != VariantGrid {
		return VariantTriangle
	}
	return multi
}

func specLines(data PropertyData) []string {
	var lines []string
	if data.Bedrooms > 0 {
		line := plural(data.Bedrooms, "quarto", "quartos")
		if data.Suites > 0 {
			line += fmt.Sprintf(" (%s)", plural(data.Suites, "suíte", "suítes"))
		}
		lines = append(lines, line)
	}
	if data.Bathrooms > 0 {
		lines = append(lines, plural(data.Bathrooms, "banheiro", "banheiros"))
	}
	if data.Parking > 0 {
		lines = append(lines, plural(data.Parking, "vaga", "vagas"))
	}
	if area := strings.TrimSpace(data.Area); area != "" {
		if !strings.Contains(area, "m") {
			area += " m²"
		}
		lines = append(lines, area)
	}
	return lines
}

func badges(data PropertyData) []string {
	var out []string
	if data.AcceptsFinancing {
		out = append(out, "Aceita financiamento")
	}
	if data.AcceptsExchange {
		out = append(out, "Aceita permuta")
	}
	if data.Furnished {
		out = append(out, "Mobiliado")
	}
	return out
}

func formatAddress(a Address) string {
	street := strings.TrimSpace(a.Street)
	if n := strings.TrimSpace(a.Number); street != "" && n != "" {
		street += ", " + n
	}

	place := strings.TrimSpace(a.City)
	if st := strings.TrimSpace(a.State); st != "" {
		if place != "" {
			place += " - " + st
		} else {
			place = st
		}
	}

	return strings.Join(nonEmpty([]string{street, a.Neighborhood, place}), " · ")
}

func priceOrAsk(price string) string {
	if p := strings.TrimSpace(price); p != "" {
		return p
	}
	return AskForPrice
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
