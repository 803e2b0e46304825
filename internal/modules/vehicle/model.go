// README: Vehicle aggregate owned by a customer.
package vehicle

import (
	"time"

	"fixme/internal/types"
)

type Vehicle struct {
	ID          types.ID
	OwnerID     types.ID
	PlateNumber string
	Make        string
	Model       string
	Year        *int
	Category    types.VehicleCategory
	// Deleted is a soft flag: historical requests keep referencing the row.
	Deleted   bool
	CreatedAt time.Time
}
