package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		hours JSONB
	);
	`

	createPlacesRegionIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_places_region
	ON places(region);
	`

	createLegCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_leg_cache (
		cache_key TEXT PRIMARY KEY,
		legs JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	`

	createLegCacheExpiryIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_leg_cache_expires_at
	ON route_leg_cache(expires_at);
	`

	statements := []string{
		createPlacesQuery,
		createPlacesRegionIndexQuery,
		createLegCacheQuery,
		createLegCacheExpiryIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the places table from a JSON file. Existing ids are overwritten.
// Returns the number of places written.
func SeedPlacesFromJSON(db *sql.DB, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed places: DB is nil")
	}

	places, err := LoadPlaceSeeds(jsonPath)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO places (id, name, region, category, address, lon, lat, hours)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		region = EXCLUDED.region,
		category = EXCLUDED.category,
		address = EXCLUDED.address,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		hours = EXCLUDED.hours;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range places {
		var hours []byte
		if p.Hours != nil {
			hours, err = json.Marshal(hoursToSeed(p.Hours))
			if err != nil {
				return 0, fmt.Errorf("seed places: encode hours id=%q: %w", p.ID, err)
			}
		}
		_, err := stmt.Exec(
			string(p.ID), p.Name, string(p.Region), p.Category, p.Address,
			p.Location.Lon, p.Location.Lat, hours,
		)
		if err != nil {
			return 0, fmt.Errorf("seed places: insert id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed places: commit tx: %w", err)
	}

	return len(places), nil
}
