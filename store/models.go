package store

import (
	"encoding/json"
	"time"

	"github.com/aouyang1/vitrine/photo"
)

const (
	KindProperty   = "property"
	KindManagement = "management"
)

type Listing struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	// Data is the PropertyData or ManagementData record, as sent by the UI.
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

type Photo struct {
	ListingID string         `json:"listing_id"`
	URL       string         `json:"url"`
	Category  photo.Category `json:"category"`
	Order     int            `json:"order"`
}

func (p Photo) Categorized() photo.CategorizedPhoto {
	return photo.CategorizedPhoto{URL: p.URL, Category: p.Category, Order: p.Order}
}

type ExportSettings struct {
	Quality      float64 `json:"quality"`
	PixelDensity float64 `json:"pixel_density"`
}

type Creative struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ListingID      string          `json:"listing_id"`
	Title          string          `json:"title"`
	Kind           string          `json:"kind"`
	Format         string          `json:"format"`
	Data           json.RawMessage `json:"data"`
	Photos         []string        `json:"photos"`
	ThumbnailURL   string          `json:"thumbnail_url"`
	ExportedImages []string        `json:"exported_images"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CRMProperty struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	PropertyType     string    `json:"property_type"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Neighborhood     string    `json:"neighborhood,omitempty"`
	SaleValue        float64   `json:"sale_value"`
	CoverImageURL    string    `json:"cover_image_url"`
	SourceCreativeID string    `json:"source_creative_id"`
	CreatedByUserID  string    `json:"created_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}
