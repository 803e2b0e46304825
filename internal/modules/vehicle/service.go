// README: Vehicle service: customer CRUD plus the active-request integrity guard.
package vehicle

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"fixme/internal/modules/identity"
	"fixme/internal/types"
)

var (
	ErrNotFound   = errors.New("vehicle not found")
	ErrBadRequest = errors.New("bad request")
	// ErrActiveRequests blocks soft deletion while any request for the
	// vehicle is still in a non-terminal state.
	ErrActiveRequests = errors.New("vehicle has active requests")
)

// ActorDirectory is the slice of the identity module the service needs.
type ActorDirectory interface {
	Get(ctx context.Context, id types.ID) (*identity.Actor, error)
}

// ActiveRequestChecker reports whether a vehicle still backs a live service
// request. Implemented by the request store.
type ActiveRequestChecker interface {
	ExistsActiveByVehicle(ctx context.Context, vehicleID types.ID) (bool, error)
}

type Service struct {
	store    *Store
	actors   ActorDirectory
	requests ActiveRequestChecker
}

func NewService(store *Store, actors ActorDirectory, requests ActiveRequestChecker) *Service {
	return &Service{store: store, actors: actors, requests: requests}
}

type AddCommand struct {
	OwnerID     types.ID
	PlateNumber string
	Make        string
	Model       string
	Year        *int
	Category    types.VehicleCategory
}

type UpdateCommand struct {
	OwnerID     types.ID
	VehicleID   types.ID
	PlateNumber string
	Make        string
	Model       string
	Year        *int
	Category    types.VehicleCategory
}

func (s *Service) Add(ctx context.Context, cmd AddCommand) (*Vehicle, error) {
	actor, err := s.actors.Get(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleCustomer); err != nil {
		return nil, err
	}
	if cmd.PlateNumber == "" || cmd.Make == "" || cmd.Model == "" {
		return nil, ErrBadRequest
	}

	category := cmd.Category
	if category == "" {
		category = types.CategoryAll
	}

	v := &Vehicle{
		ID:          newID(),
		OwnerID:     cmd.OwnerID,
		PlateNumber: cmd.PlateNumber,
		Make:        cmd.Make,
		Model:       cmd.Model,
		Year:        cmd.Year,
		Category:    category,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update edits the vehicle in place. Category changes do not touch requests
// already created from this vehicle: they keep their snapshot.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Vehicle, error) {
	v, err := s.loadOwned(ctx, cmd.OwnerID, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if cmd.PlateNumber == "" || cmd.Make == "" || cmd.Model == "" {
		return nil, ErrBadRequest
	}

	v.PlateNumber = cmd.PlateNumber
	v.Make = cmd.Make
	v.Model = cmd.Model
	v.Year = cmd.Year
	v.Category = cmd.Category
	if v.Category == "" {
		v.Category = types.CategoryAll
	}

	if err := s.store.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete soft-deletes the vehicle. Refused while any request referencing it is
// in a non-terminal state, so history behind finished requests stays intact.
func (s *Service) Delete(ctx context.Context, ownerID, vehicleID types.ID) error {
	if _, err := s.loadOwned(ctx, ownerID, vehicleID); err != nil {
		return err
	}

	active, err := s.requests.ExistsActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if active {
		return ErrActiveRequests
	}

	return s.store.MarkDeleted(ctx, vehicleID)
}

func (s *Service) List(ctx context.Context, ownerID types.ID) ([]Vehicle, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *Service) loadOwned(ctx context.Context, ownerID, vehicleID types.ID) (*Vehicle, error) {
	actor, err := s.actors.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleCustomer); err != nil {
		return nil, err
	}

	v, err := s.store.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID {
		return nil, identity.ErrForbidden
	}
	return v, nil
}

func newID() types.ID {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return types.ID(hex.EncodeToString(buf))
}
