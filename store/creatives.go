package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (d *Database) CreateCreative(ctx context.Context, c *Creative) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if len(c.Data) == 0 {
		c.Data = []byte("{}")
	}

	photos, err := json.Marshal(nonNil(c.Photos))
	if err != nil {
		return fmt.Errorf("failed to marshal photos: %w", err)
	}
	images, err := json.Marshal(nonNil(c.ExportedImages))
	if err != nil {
		return fmt.Errorf("failed to marshal exported images: %w", err)
	}

	query := `
		INSERT INTO creatives (
			id, user_id, listing_id, title, kind, format, data,
			photos, thumbnail_url, exported_images, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.ListingID, c.Title, c.Kind, c.Format, string(c.Data),
		string(photos), c.ThumbnailURL, string(images), c.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert creative: %w", err)
	}
	return nil
}

// ListCreatives returns a user's creatives, newest first.
func (d *Database) ListCreatives(ctx context.Context, userID string) ([]Creative, error) {
	query := `
		SELECT id, user_id, listing_id, title, kind, format, data,
		       photos, thumbnail_url, exported_images, created_at
		FROM creatives
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query creatives: %w", err)
	}
	defer rows.Close()

	var creatives []Creative
	for rows.Next() {
		var c Creative
		var data, photos, images string
		var createdAt int64
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ListingID, &c.Title, &c.Kind, &c.Format, &data,
			&photos, &c.ThumbnailURL, &images, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan creative: %w", err)
		}
		c.Data = []byte(data)
		c.CreatedAt = time.UnixMilli(createdAt).UTC()
		if err := json.Unmarshal([]byte(photos), &c.Photos); err != nil {
			return nil, fmt.Errorf("failed to decode photos of creative %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(images), &c.ExportedImages); err != nil {
			return nil, fmt.Errorf("failed to decode images of creative %s: %w", c.ID, err)
		}
		creatives = append(creatives, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return creatives, nil
}

func (d *Database) CreateCRMProperty(ctx context.Context, p *CRMProperty) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO crm_properties (
			id, code, property_type, city, state, neighborhood, sale_value,
			cover_image_url, source_creative_id, created_by_user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.ExecContext(ctx, query,
		p.ID, p.Code, p.PropertyType, p.City, p.State, p.Neighborhood, p.SaleValue,
		p.CoverImageURL, p.SourceCreativeID, p.CreatedByUserID, p.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert crm property: %w", err)
	}
	return nil
}

func (d *Database) ListCRMProperties(ctx context.Context, userID string) ([]CRMProperty, error) {
	query := `
		SELECT id, code, property_type, city, state, neighborhood, sale_value,
		       cover_image_url, source_creative_id, created_by_user_id, created_at
		FROM crm_properties
		WHERE created_by_user_id = ?
		ORDER BY created_at DESC, code ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crm properties: %w", err)
	}
	defer rows.Close()

	var properties []CRMProperty
	for rows.Next() {
		var p CRMProperty
		var createdAt int64
		if err := rows.Scan(
			&p.ID, &p.Code, &p.PropertyType, &p.City, &p.State, &p.Neighborhood, &p.SaleValue,
			&p.CoverImageURL, &p.SourceCreativeID, &p.CreatedByUserID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crm property: %w", err)
		}
		p.CreatedAt = time.UnixMilli(createdAt).UTC()
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return properties, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
