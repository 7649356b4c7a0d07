// Package models tracks all api models for request and responses
package models

import (
	"github.com/aouyang1/vitrine/photo"
	"github.com/aouyang1/vitrine/slides"
	"github.com/aouyang1/vitrine/store"
)

// HeaderFailedSlides lists the 1-based slide numbers left out of an archive.
const HeaderFailedSlides = "X-Failed-Slides"

type CreateListingRequest struct {
	UserID     string                 `json:"user_id"`
	Kind       string                 `json:"kind"`
	Title      string                 `json:"title"`
	Property   *slides.PropertyData   `json:"property,omitempty"`
	Management *slides.ManagementData `json:"management,omitempty"`
}

type ListingResponse struct {
	Listing store.Listing `json:"listing"`
	Photos  []store.Photo `json:"photos"`
}

type RegisterPhotoRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

type RegisterPhotoResponse struct {
	URL      string         `json:"url"`
	Category photo.Category `json:"category"`
	Order    int            `json:"order"`
	Message  string         `json:"message"`
}

type PhotoListResponse struct {
	Photos []store.Photo `json:"photos"`
	Total  int           `json:"total"`
}

type ReorderRequest struct {
	URL      string `json:"url"`
	NewOrder int    `json:"new_order"`
}

type SlidePhoto struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type Slide struct {
	Index          int             `json:"index"`
	Name           string          `json:"name"`
	SourceCategory photo.Category  `json:"source_category,omitempty"`
	Template       slides.Template `json:"template"`
	Variant        slides.Variant  `json:"variant,omitempty"`
	Photos         []SlidePhoto    `json:"photos"`
	Placeholder    bool            `json:"placeholder"`
	FileName       string          `json:"file_name"`
}

type SlidesResponse struct {
	Format slides.Format `json:"format"`
	Index  int           `json:"index"`
	Slides []Slide       `json:"slides"`
}

// SelectSlideRequest sets the active slide, either by index or by a "next"
// or "prev" step.
type SelectSlideRequest struct {
	Index *int   `json:"index,omitempty"`
	Step  string `json:"step,omitempty"`
}

type UpdateSettingsRequest struct {
	Quality      float64 `json:"quality"`
	PixelDensity float64 `json:"pixel_density"`
}

type CreativeListResponse struct {
	Creatives []store.Creative `json:"creatives"`
}

type CRMPropertyListResponse struct {
	Properties []store.CRMProperty `json:"properties"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
