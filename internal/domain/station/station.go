package station

import "time"

// Station is a physical fuel-retail location. OperatorIDs is the set of
// staff authorized to record transactions for it.
type Station struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	OperatorIDs []string  `json:"operator_ids" bson:"operator_ids"`
	Active      bool      `json:"active" bson:"active"`
	FuelTypes   []string  `json:"fuel_types,omitempty" bson:"fuel_types,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Authorizes reports whether the operator may record transactions here
func (s *Station) Authorizes(operatorID string) bool {
	for _, id := range s.OperatorIDs {
		if id == operatorID {
			return true
		}
	}
	return false
}
