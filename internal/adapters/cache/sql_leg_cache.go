package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"time"
)

// SQLLegCache is a Postgres-backed cache of provider legs keyed by query.
type SQLLegCache struct {
	DB *sql.DB
}

func NewSQLLegCache(db *sql.DB) *SQLLegCache {
	return &SQLLegCache{DB: db}
}

func (s *SQLLegCache) GetLegs(ctx context.Context, key string) (_ []domain.Leg, _ bool, err error) {
	defer obs.Time(ctx, "legs.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("leg cache: db is nil")
	}

	q := `
	SELECT legs
	FROM route_leg_cache
	WHERE cache_key = $1
		AND expires_at > NOW();
	`

	var raw []byte
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get leg cache: query route_leg_cache table: %w", err)
	}

	legs, err := decodeLegs(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get leg cache: %w", err)
	}
	return legs, true, nil
}

func (s *SQLLegCache) PutLegs(ctx context.Context, key string, legs []domain.Leg, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "legs.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("leg cache: db is nil")
	}
	if key == "" {
		return errors.New("insert leg cache: key must not be empty")
	}

	raw, err := encodeLegs(legs)
	if err != nil {
		return fmt.Errorf("insert leg cache: %w", err)
	}

	// Expiry is computed here so the TTL has a single source.
	expiresAt := time.Now().Add(ttl)

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_leg_cache (cache_key, legs, created_at, expires_at)
	VALUES ($1, $2, NOW(), $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET legs = EXCLUDED.legs,
		created_at = EXCLUDED.created_at,
		expires_at = EXCLUDED.expires_at;
	`, key, raw, expiresAt)
	if err != nil {
		return fmt.Errorf("insert leg cache key=%q: %w", key, err)
	}

	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *SQLLegCache) PurgeExpired(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "legs.sql.PurgeExpired")(&err)

	if s.DB == nil {
		return 0, errors.New("leg cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_leg_cache WHERE expires_at <= NOW();`)
	if err != nil {
		return 0, fmt.Errorf("purge leg cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge leg cache: rows affected: %w", err)
	}
	return n, nil
}
