// Package slides builds the ordered, format-specific list of slide definitions
// for a listing from its data and its categorized photos.
package slides

import (
	"fmt"

	"github.com/aouyang1/vitrine/photo"
)

type Format string

const (
	Feed  Format = "feed"
	Story Format = "story"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Feed, Story:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format: %q", s)
}

// Size returns the output pixel size of a slide in this format.
func (f Format) Size() (width, height int) {
	if f == Story {
		return 1080, 1920
	}
	return 1080, 1080
}

// Template is the closed set of visual templates a slide can reference.
type Template int

const (
	TemplateCover Template = iota
	TemplateGallery
	TemplateRoom
	TemplateFeatures
	TemplateDescription
	TemplatePricing
	TemplateContact
)

func (t Template) String() string {
	switch t {
	case TemplateCover:
		return "cover"
	case TemplateGallery:
		return "gallery"
	case TemplateRoom:
		return "room"
	case TemplateFeatures:
		return "features"
	case TemplateDescription:
		return "description"
	case TemplatePricing:
		return "pricing"
	case TemplateContact:
		return "contact"
	}
	return fmt.Sprintf("template(%d)", int(t))
}

func (t Template) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Template) UnmarshalText(b []byte) error {
	for c := TemplateCover; c <= TemplateContact; c++ {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown template: %q", b)
}

// Variant is the sub-layout of a photo slide.
type Variant string

const (
	VariantPlaceholder Variant = "placeholder"
	VariantSingle      Variant = "single"
	VariantSplit       Variant = "split"
	VariantTriangle    Variant = "triangle"
	VariantGrid        Variant = "grid"
)

// Photo is a resolved photo and the label shown next to it.
type Photo struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Inputs are the resolved values handed to a template. Fields a template does
// not use are left empty.
type Inputs struct {
	Format      Format   `json:"format"`
	Variant     Variant  `json:"variant"`
	Photos      []Photo  `json:"photos,omitempty"`
	Title       string   `json:"title,omitempty"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Price       string   `json:"price,omitempty"`
	Lines       []string `json:"lines,omitempty"`
	Body        string   `json:"body,omitempty"`
	Badges      []string `json:"badges,omitempty"`
	Contact     Contact  `json:"contact"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Render references a template together with its resolved inputs.
type Render struct {
	Template Template `json:"template"`
	Inputs   Inputs   `json:"inputs"`
}

// Definition is one slide of a sequence. SourceCategory is empty when the
// slide is not driven by a photo category.
type Definition struct {
	Name           string         `json:"name"`
	SourceCategory photo.Category `json:"source_category,omitempty"`
	Render         Render         `json:"render"`
}

// Sequence is an ordered, immutable list of slides for one format.
type Sequence struct {
	Format Format       `json:"format"`
	Slides []Definition `json:"slides"`
}

func (s Sequence) Len() int {
	return len(s.Slides)
}
