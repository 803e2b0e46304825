// README: Shared domain vocabulary (vehicle categories, service types).
package types

// VehicleCategory classifies a vehicle for provider matching. ALL is both the
// default category of a vehicle and the wildcard in a provider's served set.
type VehicleCategory string

const (
	CategoryAll        VehicleCategory = "ALL"
	CategoryPrivate    VehicleCategory = "PRIVATE"
	CategoryMotorcycle VehicleCategory = "MOTORCYCLE"
	CategoryTruck      VehicleCategory = "TRUCK"
	CategoryBus        VehicleCategory = "BUS"
)

// ParseVehicleCategory maps the persisted enum name back to a category.
func ParseVehicleCategory(s string) (VehicleCategory, bool) {
	switch VehicleCategory(s) {
	case CategoryAll, CategoryPrivate, CategoryMotorcycle, CategoryTruck, CategoryBus:
		return VehicleCategory(s), true
	}
	return "", false
}

// ServiceType is the kind of assistance a customer requests and a provider
// offers.
type ServiceType string

const (
	ServiceGarage      ServiceType = "GARAGE"
	ServiceOilChange   ServiceType = "OIL_CHANGE"
	ServiceBrakes      ServiceType = "BRAKES"
	ServiceTires       ServiceType = "TIRES"
	ServiceGlass       ServiceType = "GLASS"
	ServiceFullService ServiceType = "FULL_SERVICE"
	ServiceTowing      ServiceType = "TOWING"
)

// ParseServiceType maps the persisted enum name back to a service type.
func ParseServiceType(s string) (ServiceType, bool) {
	switch ServiceType(s) {
	case ServiceGarage, ServiceOilChange, ServiceBrakes, ServiceTires,
		ServiceGlass, ServiceFullService, ServiceTowing:
		return ServiceType(s), true
	}
	return "", false
}
