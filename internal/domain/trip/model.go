package trip

import (
	"time"

	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/types"
)

// Trip is the minimal view of a transport trip that finance reporting
// needs: the human trip number invoices are grouped under on statements
// and worksheets.
type Trip struct {
	ID            string    `json:"id"`
	TripNumber    string    `json:"trip_number"`
	DepartureDate time.Time `json:"departure_date"`
	Route         []string  `json:"route,omitempty"`
	types.BaseModel
}

func (t *Trip) Validate() error {
	if t.TripNumber == "" {
		return ierr.NewError("trip validation failed").
			WithHint("trip number is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
