// Package store database for listings, their photos, export settings and
// persisted creatives
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// exports persist from a background goroutine while requests keep writing
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}

	if err := database.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

func (d *Database) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id         TEXT NOT NULL PRIMARY KEY,
		user_id    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		title      TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS photos (
		listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		url        TEXT NOT NULL,
		category   TEXT NOT NULL,
		"order"    INTEGER NOT NULL,
		PRIMARY KEY (listing_id, url)
	);
	CREATE INDEX IF NOT EXISTS idx_photos_listing_order ON photos(listing_id, "order");
	CREATE TABLE IF NOT EXISTS export_settings (
		singleton     INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		quality       REAL NOT NULL,
		pixel_density REAL NOT NULL,
		PRIMARY KEY (singleton)
	);
	CREATE TABLE IF NOT EXISTS creatives (
		id              TEXT NOT NULL PRIMARY KEY,
		user_id         TEXT NOT NULL,
		listing_id      TEXT NOT NULL,
		title           TEXT NOT NULL,
		kind            TEXT NOT NULL,
		format          TEXT NOT NULL,
		data            TEXT NOT NULL,
		photos          TEXT NOT NULL,
		thumbnail_url   TEXT NOT NULL,
		exported_images TEXT NOT NULL,
		created_at      INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_creatives_user ON creatives(user_id, created_at);
	CREATE TABLE IF NOT EXISTS crm_properties (
		id                 TEXT NOT NULL PRIMARY KEY,
		code               TEXT NOT NULL UNIQUE,
		property_type      TEXT NOT NULL,
		city               TEXT NOT NULL,
		state              TEXT NOT NULL,
		neighborhood       TEXT NOT NULL,
		sale_value         REAL NOT NULL,
		cover_image_url    TEXT NOT NULL,
		source_creative_id TEXT NOT NULL,
		created_by_user_id TEXT NOT NULL,
		created_at         INTEGER NOT NULL
	);
	`
	_, err := d.db.Exec(query)
	return err
}

func (d *Database) CreateListing(ctx context.Context, l *Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if len(l.Data) == 0 {
		l.Data = []byte("{}")
	}

	query := `INSERT INTO listings (id, user_id, kind, title, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query, l.ID, l.UserID, l.Kind, l.Title, string(l.Data), l.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (d *Database) GetListing(ctx context.Context, id string) (*Listing, error) {
	query := `SELECT id, user_id, kind, title, data, created_at FROM listings WHERE id = ?`

	var l Listing
	var data string
	var createdAt int64
	err := d.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.UserID, &l.Kind, &l.Title, &data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	l.Data = []byte(data)
	l.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &l, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
