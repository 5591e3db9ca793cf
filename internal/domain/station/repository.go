package station

import "context"

// Repository provides read access to station metadata. Station CRUD is an
// administrative concern handled outside this service.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Station, error)
}

// ErrStationNotFound indicates a missing station record
type ErrStationNotFound struct {
	StationID string
}

func (e ErrStationNotFound) Error() string {
	return "station not found: " + e.StationID
}

// Is implements the errors.Is interface for ErrStationNotFound
func (e ErrStationNotFound) Is(target error) bool {
	t, ok := target.(ErrStationNotFound)
	if !ok {
		return false
	}
	if t.StationID == "" {
		return true
	}
	return e.StationID == t.StationID
}
