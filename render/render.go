// Package render turns a slide's template reference into a visual surface
// that the rasterizer can capture
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/aouyang1/vitrine/slides"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Surface is a fully laid out visual ready to be rasterized.
type Surface struct {
	Template slides.Template
	Width    int
	Height   int
	HTML     string
}

// Adapter renders one slide. Implementations must be stateless.
type Adapter interface {
	Render(r slides.Render) (*Surface, error)
}

// HTMLAdapter renders slides with the embedded HTML templates.
type HTMLAdapter struct {
	tmpl *template.Template
}

func NewHTMLAdapter() (*HTMLAdapter, error) {
	tmpl, err := template.New("slides").ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse slide templates: %w", err)
	}
	return &HTMLAdapter{tmpl: tmpl}, nil
}

type page struct {
	Width   int
	Height  int
	Kind    string
	In      slides.Inputs
	Content template.HTML
}

func (a *HTMLAdapter) Render(r slides.Render) (*Surface, error) {
	name, err := templateName(r.Template)
	if err != nil {
		return nil, err
	}

	width, height := r.Inputs.Format.Size()
	data := page{Width: width, Height: height, Kind: name, In: r.Inputs}

	var body bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&body, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", r.Template, err)
	}
	// body was produced by html/template and is already escaped
	data.Content = template.HTML(body.String())

	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, fmt.Errorf("failed to render page for %s: %w", r.Template, err)
	}

	return &Surface{
		Template: r.Template,
		Width:    width,
		Height:   height,
		HTML:     buf.String(),
	}, nil
}

func templateName(t slides.Template) (string, error) {
	switch t {
	case slides.TemplateCover:
		return "cover", nil
	case slides.TemplateGallery:
		return "gallery", nil
	case slides.TemplateRoom:
		return "room", nil
	case slides.TemplateFeatures:
		return "features", nil
	case slides.TemplateDescription:
		return "description", nil
	case slides.TemplatePricing:
		return "pricing", nil
	case slides.TemplateContact:
		return "contact", nil
	}
	return "", fmt.Errorf("no template for %s", t)
}
