// README: Lifecycle engine: guarded state transitions and the matching/read queries.
package request

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"fixme/internal/geo"
	"fixme/internal/modules/identity"
	"fixme/internal/modules/vehicle"
	"fixme/internal/types"
)

var (
	ErrNotFound     = errors.New("request not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("request state conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrNoLocation   = errors.New("provider location not set")
	// ErrCancelUndefined: CANCELED exists as a terminal state but no product
	// flow reaches it yet.
	ErrCancelUndefined = errors.New("cancellation flow not defined")
)

// ActorDirectory is the slice of the identity module the engine needs.
type ActorDirectory interface {
	Get(ctx context.Context, id types.ID) (*identity.Actor, error)
}

// VehicleCatalog resolves the vehicle referenced at creation time.
type VehicleCatalog interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

// BusinessLocator resolves a provider's business coordinate for the
// provider-side matching query. Implemented by the provider service.
type BusinessLocator interface {
	Locate(ctx context.Context, userID types.ID) (*types.Point, error)
}

// Geocoder turns a coordinate into a display address. Optional; creation works
// without one.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
}

type Service struct {
	store    *Store
	actors   ActorDirectory
	vehicles VehicleCatalog
	business BusinessLocator
	geocoder Geocoder
}

func NewService(store *Store, actors ActorDirectory, vehicles VehicleCatalog, business BusinessLocator, geocoder Geocoder) *Service {
	return &Service{store: store, actors: actors, vehicles: vehicles, business: business, geocoder: geocoder}
}

type CreateCommand struct {
	CustomerID  types.ID
	VehicleID   types.ID
	Description string
	Location    types.Point
	ServiceType types.ServiceType
}

type AssignCommand struct {
	CustomerID types.ID
	RequestID  types.ID
	ProviderID types.ID
}

type AcceptCommand struct {
	ProviderID types.ID
	RequestID  types.ID
}

type ConfirmCommand struct {
	CustomerID types.ID
	RequestID  types.ID
}

type ProgressCommand struct {
	ProviderID types.ID
	RequestID  types.ID
	Stage      ProgressStage
}

type CancelCommand struct {
	ActorID   types.ID
	RequestID types.ID
}

// Create opens a new request in PENDING with no provider. The vehicle category
// is copied onto the request and never updated afterwards.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*ServiceRequest, error) {
	actor, err := s.actors.Get(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleCustomer); err != nil {
		return nil, err
	}
	if cmd.ServiceType == "" {
		return nil, ErrBadRequest
	}

	v, err := s.vehicles.Get(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != cmd.CustomerID {
		return nil, identity.ErrForbidden
	}
	if v.Deleted {
		return nil, vehicle.ErrNotFound
	}

	now := time.Now()
	r := &ServiceRequest{
		ID:              newID(),
		CustomerID:      cmd.CustomerID,
		VehicleID:       cmd.VehicleID,
		VehicleCategory: v.Category,
		ServiceType:     cmd.ServiceType,
		Location:        cmd.Location,
		Description:     cmd.Description,
		Status:          StatusPending,
		ProgressStage:   StageOnTheWay,
		StatusVersion:   0,
		CreatedAt:       now,
	}
	if s.geocoder != nil {
		// Best effort; a request without a display address is still valid.
		if addr, err := s.geocoder.ReverseGeocode(ctx, cmd.Location); err == nil {
			r.Address = addr
		}
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusPending,
		ActorType:  "customer",
		ActorID:    &cmd.CustomerID,
		CreatedAt:  now,
	})
	return r, nil
}

// Assign sets the provider chosen by the customer. Only valid while the
// request is still PENDING; the provider slot is written exactly once.
func (s *Service) Assign(ctx context.Context, cmd AssignCommand) (*ServiceRequest, error) {
	r, err := s.loadOwned(ctx, cmd.CustomerID, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusPending {
		return nil, ErrInvalidState
	}

	target, err := s.actors.Get(ctx, cmd.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireApprovedProvider(target); err != nil {
		// The chosen target is unusable; the caller picked badly rather than
		// overstepped.
		return nil, ErrBadRequest
	}

	if err := s.transition(ctx, r, StatusWaitingProvider, &cmd.ProviderID, "customer", cmd.CustomerID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, r.ID)
}

// Accept is the assigned provider taking the job: WAITING_PROVIDER ->
// WAITING_CUSTOMER.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*ServiceRequest, error) {
	actor, err := s.actors.Get(ctx, cmd.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireApprovedProvider(actor); err != nil {
		return nil, err
	}

	r, err := s.loadAssigned(ctx, cmd.ProviderID, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusWaitingProvider {
		return nil, ErrInvalidState
	}

	if err := s.transition(ctx, r, StatusWaitingCustomer, nil, "provider", cmd.ProviderID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, r.ID)
}

// Confirm is the customer approving the provider's acceptance:
// WAITING_CUSTOMER -> ACCEPTED.
func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) (*ServiceRequest, error) {
	r, err := s.loadOwned(ctx, cmd.CustomerID, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusWaitingCustomer {
		return nil, ErrInvalidState
	}

	if err := s.transition(ctx, r, StatusAccepted, nil, "customer", cmd.CustomerID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, r.ID)
}

// UpdateProgress moves the job sub-state. Stage DONE also completes the
// request; that status move is one-way. Progress edits remain possible on a
// DONE request (correcting the final stage) but never re-open it.
func (s *Service) UpdateProgress(ctx context.Context, cmd ProgressCommand) (*ServiceRequest, error) {
	if _, ok := ParseProgressStage(string(cmd.Stage)); !ok {
		return nil, ErrBadRequest
	}

	r, err := s.loadAssigned(ctx, cmd.ProviderID, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusAccepted && r.Status != StatusDone {
		return nil, ErrInvalidState
	}

	to := r.Status
	if cmd.Stage == StageDone {
		to = StatusDone
	}

	ok, err := s.store.UpdateProgress(ctx, r.ID, r.Status, to, r.StatusVersion, cmd.Stage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	if to != r.Status {
		_ = s.store.AppendEvent(ctx, &Event{
			RequestID:  r.ID,
			FromStatus: r.Status,
			ToStatus:   to,
			ActorType:  "provider",
			ActorID:    &cmd.ProviderID,
			CreatedAt:  time.Now(),
		})
	}
	return s.store.Get(ctx, r.ID)
}

// Cancel is a placeholder. CANCELED is modelled as a terminal state in the
// transition table, but which actor may cancel, from which states, is an open
// product question.
// TODO(product): define the cancellation flow, then implement it with the same
// compare-and-swap discipline as the other transitions.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	return ErrCancelUndefined
}

// ListByCustomer returns the customer's own requests, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID types.ID) ([]ServiceRequest, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

// Inbox lists requests assigned to the provider, optionally narrowed to one
// status.
func (s *Service) Inbox(ctx context.Context, providerID types.ID, status *Status) ([]ServiceRequest, error) {
	actor, err := s.actors.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleProvider); err != nil {
		return nil, err
	}
	return s.store.ListByProvider(ctx, providerID, status)
}

// ConfirmedJobs lists only requests the customer has confirmed (ACCEPTED),
// the provider's active work queue.
func (s *Service) ConfirmedJobs(ctx context.Context, providerID types.ID) ([]ServiceRequest, error) {
	st := StatusAccepted
	return s.Inbox(ctx, providerID, &st)
}

// NearbyPending lists unassigned requests within the inclusive radius of the
// provider's business, closest first. A missing business or coordinate is a
// failure, not an empty result; assigned requests are never exposed here.
func (s *Service) NearbyPending(ctx context.Context, providerID types.ID, radiusKm float64) ([]NearbyRequest, error) {
	actor, err := s.actors.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleProvider); err != nil {
		return nil, err
	}

	origin, err := s.business.Locate(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return nil, ErrNoLocation
	}
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}

	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return rankRequests(pending, *origin, radiusKm), nil
}

// transition applies one CAS status write plus its audit event. The read that
// produced r and this write form the optimistic unit: a version mismatch means
// another transition landed in between, and the caller gets ErrConflict with
// state untouched.
func (s *Service) transition(ctx context.Context, r *ServiceRequest, to Status, providerID *types.ID, actorType string, actorID types.ID) error {
	if !CanTransition(r.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, to, r.StatusVersion, providerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		RequestID:  r.ID,
		FromStatus: r.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    &actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) loadOwned(ctx context.Context, customerID, requestID types.ID) (*ServiceRequest, error) {
	actor, err := s.actors.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(actor, identity.RoleCustomer); err != nil {
		return nil, err
	}

	r, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != customerID {
		return nil, identity.ErrForbidden
	}
	return r, nil
}

func (s *Service) loadAssigned(ctx context.Context, providerID, requestID types.ID) (*ServiceRequest, error) {
	r, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.ProviderID == nil || *r.ProviderID != providerID {
		return nil, identity.ErrForbidden
	}
	return r, nil
}

func newID() types.ID {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return types.ID(hex.EncodeToString(buf))
}
