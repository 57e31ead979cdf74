package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the PlaceStore port.
type PostgresPlaceRepository struct{ DB *sql.DB }

func NewPostgresPlaceRepository(db *sql.DB) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{DB: db}
}

const selectPlaceColumns = `
	SELECT
		id,
		name,
		region,
		category,
		address,
		lon,
		lat,
		hours
	FROM places
`

// Return the places found for ids. Unknown ids are absent from the map.
func (r *PostgresPlaceRepository) GetPlaces(ctx context.Context, ids []domain.PlaceID) (_ map[domain.PlaceID]*domain.Place, err error) {
	defer obs.Time(ctx, "places.pg.GetPlaces")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres place repository: DB is nil")
	}
	out := make(map[domain.PlaceID]*domain.Place, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = string(id)
	}

	rows, err := r.DB.QueryContext(ctx, selectPlaceColumns+`WHERE id = ANY($1::text[]);`, keys)
	if err != nil {
		return nil, fmt.Errorf("get places: query places table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("get places: %w", err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get places: row iteration: %w", err)
	}

	return out, nil
}

// Return all places ordered by id, optionally filtered by region.
func (r *PostgresPlaceRepository) ListPlaces(ctx context.Context, region domain.Region) (_ []*domain.Place, err error) {
	defer obs.Time(ctx, "places.pg.ListPlaces")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres place repository: DB is nil")
	}

	region = region.Normalize()
	query := selectPlaceColumns + `WHERE ($1 = '' OR region = $1) ORDER BY id;`
	rows, err := r.DB.QueryContext(ctx, query, string(region))
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]*domain.Place, 0, 64)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("list places: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}

func scanPlace(rows *sql.Rows) (*domain.Place, error) {
	var (
		id, name, region, category, address string
		lon, lat                             float64
		hours                                []byte
	)
	if err := rows.Scan(&id, &name, &region, &category, &address, &lon, &lat, &hours); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	p := &domain.Place{
		ID:       domain.PlaceID(id),
		Name:     name,
		Region:   domain.Region(region),
		Category: category,
		Address:  address,
		Location: domain.Coordinates{Lon: lon, Lat: lat},
	}
	if len(hours) > 0 {
		var seed HoursSeed
		if err := json.Unmarshal(hours, &seed); err != nil {
			return nil, fmt.Errorf("decode hours id=%q: %w", id, err)
		}
		p.Hours = hoursFromSeed(&seed)
	}
	return p, nil
}
