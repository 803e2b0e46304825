// README: Provider service: business upsert/read and the nearby-providers query.
package provider

import (
	"context"
	"errors"
	"time"

	"fixme/internal/geo"
	"fixme/internal/modules/identity"
	"fixme/internal/types"
)

var (
	ErrNotFound   = errors.New("business not found")
	ErrBadRequest = errors.New("bad request")
)

// ActorDirectory is the slice of the identity module the service needs.
type ActorDirectory interface {
	Get(ctx context.Context, id types.ID) (*identity.Actor, error)
}

type Service struct {
	store  *Store
	actors ActorDirectory
}

func NewService(store *Store, actors ActorDirectory) *Service {
	return &Service{store: store, actors: actors}
}

type UpsertCommand struct {
	UserID       types.ID
	Name         string
	City         string
	Address      string
	Description  string
	Services     string
	OpeningHours string
	Categories   []types.VehicleCategory
	Offered      []types.ServiceType
	Location     *types.Point
}

// Upsert creates or updates the caller's business. Omitting the coordinate in
// an update keeps the previously stored one.
func (s *Service) Upsert(ctx context.Context, cmd UpsertCommand) (*Business, error) {
	actor, err := s.actors.Get(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleProvider); err != nil {
		return nil, err
	}
	if cmd.Name == "" || cmd.City == "" || cmd.Address == "" {
		return nil, ErrBadRequest
	}

	now := time.Now()
	b, err := s.store.Get(ctx, cmd.UserID)
	if errors.Is(err, ErrNotFound) {
		b = &Business{UserID: cmd.UserID, CreatedAt: now}
	} else if err != nil {
		return nil, err
	}

	b.Name = cmd.Name
	b.City = cmd.City
	b.Address = cmd.Address
	b.Description = cmd.Description
	b.Services = cmd.Services
	b.OpeningHours = cmd.OpeningHours
	b.Categories = cmd.Categories
	b.Offered = cmd.Offered
	b.UpdatedAt = now
	if cmd.Location != nil {
		b.Location = cmd.Location
	}

	if err := s.store.Upsert(ctx, b); err != nil {
		return nil, err
	}
	if b.Location != nil {
		if err := s.store.IndexLocation(ctx, b.UserID, *b.Location); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, userID types.ID) (*Business, error) {
	return s.store.Get(ctx, userID)
}

// Nearby lists approved, located businesses that serve the requested vehicle
// category and offer the requested service type, inside the inclusive radius,
// closest first.
func (s *Service) Nearby(ctx context.Context, q NearbyQuery) ([]Match, error) {
	if q.Category == "" || q.ServiceType == "" {
		return nil, ErrBadRequest
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = geo.DefaultRadiusKm
	}

	candidates, err := s.store.NearbyCandidates(ctx, q.Origin, q.RadiusKm)
	if err != nil {
		return nil, err
	}
	return rankBusinesses(candidates, q), nil
}

// Locate returns the business coordinate for a provider, used by the
// provider-side matching query. A business without a coordinate is a hard
// failure there, not an empty result.
func (s *Service) Locate(ctx context.Context, userID types.ID) (*types.Point, error) {
	b, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.Location, nil
}
