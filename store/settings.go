package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func DefaultExportSettings() ExportSettings {
	return ExportSettings{Quality: 1, PixelDensity: 2}
}

func (d *Database) GetExportSettings(ctx context.Context) (*ExportSettings, error) {
	const query = `
		SELECT quality,
		       pixel_density
		FROM export_settings
		WHERE singleton = 1
	`

	var s ExportSettings
	err := d.db.QueryRowContext(ctx, query).Scan(&s.Quality, &s.PixelDensity)
	if errors.Is(err, sql.ErrNoRows) {
		// Bootstrap defaults if no settings row exists yet
		defaults := DefaultExportSettings()
		if err := d.UpsertExportSettings(ctx, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get export settings: %w", err)
	}
	return &s, nil
}

func (d *Database) UpsertExportSettings(ctx context.Context, s *ExportSettings) error {
	const stmt = `
		INSERT INTO export_settings (
			singleton,
			quality,
			pixel_density
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			quality       = excluded.quality,
			pixel_density = excluded.pixel_density
	`

	if _, err := d.db.ExecContext(ctx, stmt, s.Quality, s.PixelDensity); err != nil {
		return fmt.Errorf("upsert export settings: %w", err)
	}
	return nil
}
