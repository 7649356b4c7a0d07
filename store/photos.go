package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/vitrine/photo"
)

func (d *Database) InsertPhoto(ctx context.Context, listingID, url string, category photo.Category, order int) error {
	query := `INSERT INTO photos (listing_id, url, category, "order") VALUES (?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query, listingID, url, string(category), order)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

// GetPhotos returns every photo of a listing by ascending order.
func (d *Database) GetPhotos(ctx context.Context, listingID string) ([]Photo, error) {
	query := `
		SELECT listing_id, url, category, "order"
		FROM photos
		WHERE listing_id = ?
		ORDER BY "order" ASC
	`
	rows, err := d.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ListingID, &p.URL, &p.Category, &p.Order); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return photos, nil
}

func (d *Database) GetPhoto(ctx context.Context, listingID, url string) (*Photo, error) {
	query := `SELECT listing_id, url, category, "order" FROM photos WHERE listing_id = ? AND url = ?`

	var p Photo
	err := d.db.QueryRowContext(ctx, query, listingID, url).Scan(&p.ListingID, &p.URL, &p.Category, &p.Order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("photo %s: %w", url, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &p, nil
}

func (d *Database) PhotoExists(ctx context.Context, listingID, url string) (bool, error) {
	query := `SELECT COUNT(*) FROM photos WHERE listing_id = ? AND url = ?`
	var count int
	err := d.db.QueryRowContext(ctx, query, listingID, url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check photo existence: %w", err)
	}
	return count > 0, nil
}

// GetMaxOrder returns the order the next registered photo takes.
func (d *Database) GetMaxOrder(ctx context.Context, listingID string) (int, error) {
	query := `SELECT COALESCE(MAX("order"), -1) FROM photos WHERE listing_id = ?`
	var maxOrder int
	err := d.db.QueryRowContext(ctx, query, listingID).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}
	return maxOrder + 1, nil
}

// DeletePhoto removes a photo and closes the gap it leaves in the order.
func (d *Database) DeletePhoto(ctx context.Context, listingID, url string) error {
	p, err := d.GetPhoto(ctx, listingID, url)
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE listing_id = ? AND url = ?`, listingID, url); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	query := `
		UPDATE photos
		SET "order" = "order" - 1
		WHERE listing_id = ? AND "order" > ?
	`
	if _, err := tx.ExecContext(ctx, query, listingID, p.Order); err != nil {
		return fmt.Errorf("failed to compact orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdatePhotoOrder moves a photo to newOrder, shifting the photos in between
// by one so orders stay dense.
func (d *Database) UpdatePhotoOrder(ctx context.Context, listingID, url string, newOrder int) error {
	p, err := d.GetPhoto(ctx, listingID, url)
	if err != nil {
		return err
	}

	oldOrder := p.Order
	if oldOrder == newOrder {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if oldOrder < newOrder {
		// Moving down: decrement orders (oldOrder, newOrder] by 1
		query := `
			UPDATE photos
			SET "order" = "order" - 1
			WHERE listing_id = ? AND "order" > ? AND "order" <= ?
		`
		if _, err := tx.ExecContext(ctx, query, listingID, oldOrder, newOrder); err != nil {
			return fmt.Errorf("failed to shift orders down: %w", err)
		}
	} else {
		// Moving up: increment orders [newOrder, oldOrder) by 1
		query := `
			UPDATE photos
			SET "order" = "order" + 1
			WHERE listing_id = ? AND "order" >= ? AND "order" < ?
		`
		if _, err := tx.ExecContext(ctx, query, listingID, newOrder, oldOrder); err != nil {
			return fmt.Errorf("failed to shift orders up: %w", err)
		}
	}

	query := `UPDATE photos SET "order" = ? WHERE listing_id = ? AND url = ?`
	if _, err := tx.ExecContext(ctx, query, newOrder, listingID, url); err != nil {
		return fmt.Errorf("failed to update photo order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("photo order updated", "listing_id", listingID, "url", url, "old_order", oldOrder, "new_order", newOrder)
	return nil
}
