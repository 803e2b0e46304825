// README: Common identifier and coordinate value objects used across modules.
package types

// ID is an opaque entity identifier. User IDs carry the auth provider's UID;
// everything else is generated locally.
type ID string

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}
