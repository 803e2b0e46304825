// README: ServiceRequest aggregate, status/progress definitions, and the transition table.
package request

import (
	"time"

	"fixme/internal/geo"
	"fixme/internal/types"
)

type Status string

const (
	// StatusNone only appears as the from-status of creation events.
	StatusNone            Status = "NONE"
	StatusPending         Status = "PENDING"
	StatusWaitingProvider Status = "WAITING_PROVIDER"
	StatusWaitingCustomer Status = "WAITING_CUSTOMER"
	StatusAccepted        Status = "ACCEPTED"
	StatusDone            Status = "DONE"
	StatusCanceled        Status = "CANCELED"
)

// ParseStatus maps the persisted enum name back to a status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusWaitingProvider, StatusWaitingCustomer,
		StatusAccepted, StatusDone, StatusCanceled:
		return Status(s), true
	}
	return "", false
}

// ProgressStage is the physical job sub-state, meaningful once the request is
// ACCEPTED. Stage DONE also completes the request.
type ProgressStage string

const (
	StageOnTheWay   ProgressStage = "ON_THE_WAY"
	StageArrived    ProgressStage = "ARRIVED"
	StageInProgress ProgressStage = "IN_PROGRESS"
	StageDone       ProgressStage = "DONE"
)

func ParseProgressStage(s string) (ProgressStage, bool) {
	switch ProgressStage(s) {
	case StageOnTheWay, StageArrived, StageInProgress, StageDone:
		return ProgressStage(s), true
	}
	return "", false
}

// AllowedTransitions represents the request state flow as code. CANCELED is a
// terminal state every non-terminal status may reach, but no operation
// performs that transition yet (see Service.Cancel).
var AllowedTransitions = map[Status][]Status{
	StatusPending:         {StatusWaitingProvider, StatusCanceled},
	StatusWaitingProvider: {StatusWaitingCustomer, StatusCanceled},
	StatusWaitingCustomer: {StatusAccepted, StatusCanceled},
	StatusAccepted:        {StatusDone, StatusCanceled},
	StatusDone:            {},
	StatusCanceled:        {},
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions leave the status.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// ActiveStatuses is the non-terminal set checked by the vehicle integrity
// guard.
var ActiveStatuses = []Status{
	StatusPending, StatusWaitingProvider, StatusWaitingCustomer, StatusAccepted,
}

// ServiceRequest is the central entity. CustomerID and VehicleID are immutable
// after creation; ProviderID is set exactly once by assignment. The vehicle
// category is a snapshot frozen at creation time and does not track later
// vehicle edits.
type ServiceRequest struct {
	ID              types.ID
	CustomerID      types.ID
	ProviderID      *types.ID
	VehicleID       types.ID
	VehicleCategory types.VehicleCategory
	ServiceType     types.ServiceType
	Location        types.Point
	Address         string
	Description     string
	Status          Status
	ProgressStage   ProgressStage
	StatusVersion   int
	CreatedAt       time.Time
}

// Event records one applied transition for auditing.
type Event struct {
	ID         int64
	RequestID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// NearbyRequest is a pending request visible to a provider, with the distance
// from the provider's business.
type NearbyRequest struct {
	Request    ServiceRequest
	DistanceKm float64
}

// rankRequests filters pending requests to the inclusive radius around origin
// and sorts ascending by distance, stable on ties.
func rankRequests(reqs []ServiceRequest, origin types.Point, radiusKm float64) []NearbyRequest {
	out := make([]NearbyRequest, 0, len(reqs))
	for _, r := range reqs {
		d := geo.HaversineKm(origin, r.Location)
		if !geo.WithinRadius(d, radiusKm) {
			continue
		}
		out = append(out, NearbyRequest{Request: r, DistanceKm: d})
	}
	geo.SortByDistance(out, func(n NearbyRequest) float64 { return n.DistanceKm })
	return out
}
