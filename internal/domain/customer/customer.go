package customer

import "time"

// Customer holds a loyalty member's current point balance. The balance is
// mutated only through signed deltas applied by the transaction engine and
// must never go below zero.
type Customer struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Points    int64     `json:"points" bson:"points"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
