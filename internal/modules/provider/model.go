// README: Provider business profile and the nearby-provider ranking logic.
package provider

import (
	"time"

	"fixme/internal/geo"
	"fixme/internal/types"
)

// Business is the single profile a provider exposes to customers. Location is
// optional: a business without one is simply not locatable and never matched.
type Business struct {
	UserID       types.ID
	Name         string
	City         string
	Address      string
	Description  string
	Services     string // free text shown on the profile, e.g. "Towing, Tires"
	OpeningHours string
	Categories   []types.VehicleCategory
	Offered      []types.ServiceType
	Location     *types.Point
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServesCategory reports whether the business covers the requested vehicle
// category, honouring the ALL wildcard. An empty set never matches.
func (b *Business) ServesCategory(c types.VehicleCategory) bool {
	for _, have := range b.Categories {
		if have == types.CategoryAll || have == c {
			return true
		}
	}
	return false
}

// OffersService reports whether the business offers the requested service
// type. An empty set never matches.
func (b *Business) OffersService(s types.ServiceType) bool {
	for _, have := range b.Offered {
		if have == s {
			return true
		}
	}
	return false
}

// Match is a business that passed all nearby-query filters, with its distance
// from the query origin.
type Match struct {
	Business   Business
	DistanceKm float64
}

type NearbyQuery struct {
	Origin      types.Point
	RadiusKm    float64
	Category    types.VehicleCategory
	ServiceType types.ServiceType
}

// rankBusinesses applies the category/service/radius filters and returns
// matches sorted ascending by distance. The sort is stable, so equidistant
// businesses keep their input order.
func rankBusinesses(candidates []Business, q NearbyQuery) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, b := range candidates {
		if b.Location == nil {
			continue
		}
		if !b.ServesCategory(q.Category) || !b.OffersService(q.ServiceType) {
			continue
		}
		d := geo.HaversineKm(q.Origin, *b.Location)
		if !geo.WithinRadius(d, q.RadiusKm) {
			continue
		}
		matches = append(matches, Match{Business: b, DistanceKm: d})
	}
	geo.SortByDistance(matches, func(m Match) float64 { return m.DistanceKm })
	return matches
}
