// README: Business store backed by PostgreSQL, with a Redis GEO index for matching.
package provider

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"fixme/internal/types"
)

const businessGeoKey = "matching:providers"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

// NewStore creates the store. redis may be nil; nearby candidate lookup then
// falls back to a full table scan.
func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

func (s *Store) Upsert(ctx context.Context, b *Business) error {
	var lat, lng *float64
	if b.Location != nil {
		lat, lng = &b.Location.Lat, &b.Location.Lng
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO provider_business (
            user_id, name, city, address, description, services, opening_hours,
            categories, offered_services, lat, lng, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            city = EXCLUDED.city,
            address = EXCLUDED.address,
            description = EXCLUDED.description,
            services = EXCLUDED.services,
            opening_hours = EXCLUDED.opening_hours,
            categories = EXCLUDED.categories,
            offered_services = EXCLUDED.offered_services,
            lat = EXCLUDED.lat,
            lng = EXCLUDED.lng,
            updated_at = EXCLUDED.updated_at`,
		string(b.UserID), b.Name, b.City, b.Address, b.Description,
		b.Services, b.OpeningHours,
		categoryNames(b.Categories), serviceNames(b.Offered),
		lat, lng, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, userID types.ID) (*Business, error) {
	row := s.db.QueryRow(ctx, `
        SELECT user_id, name, city, address, description, services, opening_hours,
               categories, offered_services, lat, lng, created_at, updated_at
        FROM provider_business
        WHERE user_id = $1`, string(userID),
	)
	b, err := scanBusiness(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NearbyCandidates returns located businesses of approved providers around the
// origin, ordered by user ID. With Redis available the GEO index narrows the
// candidate set first; the radius is padded because the precise haversine
// filter downstream has the final say on the inclusive boundary. Both paths
// hand candidates over in user-ID order, so equidistant matches rank the same
// way regardless of the index.
func (s *Store) NearbyCandidates(ctx context.Context, origin types.Point, radiusKm float64) ([]Business, error) {
	if s.redis == nil {
		return s.listLocatable(ctx)
	}

	locs, err := s.redis.GeoSearch(ctx, businessGeoKey, &redis.GeoSearchQuery{
		Longitude:  origin.Lng,
		Latitude:   origin.Lat,
		Radius:     radiusKm * 1.05,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l)
	}
	return s.getApprovedByIDs(ctx, ids)
}

// IndexLocation mirrors a business coordinate into the Redis GEO set. A nil
// redis client makes this a no-op.
func (s *Store) IndexLocation(ctx context.Context, userID types.ID, p types.Point) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.GeoAdd(ctx, businessGeoKey, &redis.GeoLocation{
		Name:      string(userID),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

func (s *Store) listLocatable(ctx context.Context) ([]Business, error) {
	rows, err := s.db.Query(ctx, `
        SELECT b.user_id, b.name, b.city, b.address, b.description, b.services, b.opening_hours,
               b.categories, b.offered_services, b.lat, b.lng, b.created_at, b.updated_at
        FROM provider_business b
        JOIN users u ON u.id = b.user_id
        WHERE b.lat IS NOT NULL AND b.lng IS NOT NULL
          AND u.provider_approval = 'APPROVED'
        ORDER BY b.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBusinesses(rows)
}

// getApprovedByIDs loads businesses for the given user IDs in user-ID order.
// The ranking step re-sorts by precise distance anyway, so only the tie order
// matters here.
func (s *Store) getApprovedByIDs(ctx context.Context, ids []string) ([]Business, error) {
	rows, err := s.db.Query(ctx, `
        SELECT b.user_id, b.name, b.city, b.address, b.description, b.services, b.opening_hours,
               b.categories, b.offered_services, b.lat, b.lng, b.created_at, b.updated_at
        FROM provider_business b
        JOIN users u ON u.id = b.user_id
        WHERE b.user_id = ANY($1)
          AND b.lat IS NOT NULL AND b.lng IS NOT NULL
          AND u.provider_approval = 'APPROVED'
        ORDER BY b.user_id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBusinesses(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*Business, error) {
	var b Business
	var categories, offered []string
	var lat, lng *float64
	err := row.Scan(
		&b.UserID, &b.Name, &b.City, &b.Address, &b.Description,
		&b.Services, &b.OpeningHours,
		&categories, &offered, &lat, &lng, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if parsed, ok := types.ParseVehicleCategory(c); ok {
			b.Categories = append(b.Categories, parsed)
		}
	}
	for _, o := range offered {
		if parsed, ok := types.ParseServiceType(o); ok {
			b.Offered = append(b.Offered, parsed)
		}
	}
	if lat != nil && lng != nil {
		b.Location = &types.Point{Lat: *lat, Lng: *lng}
	}
	return &b, nil
}

func collectBusinesses(rows pgx.Rows) ([]Business, error) {
	var out []Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func categoryNames(cs []types.VehicleCategory) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, string(c))
	}
	return out
}

func serviceNames(ss []types.ServiceType) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, string(s))
	}
	return out
}
