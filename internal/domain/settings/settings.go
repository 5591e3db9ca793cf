package settings

import "time"

// Settings is the network's global economic configuration. The engine reads
// one snapshot per transaction attempt and embeds the parameters into the
// resulting ledger record, so records stay self-describing after the global
// values change.
type Settings struct {
	PointValue      int64     `json:"point_value" bson:"point_value"`           // Currency units per point
	CreditPercent   float64   `json:"credit_percent" bson:"credit_percent"`     // Share of the fuel amount returned as value
	MinRedeemPoints int64     `json:"min_redeem_points" bson:"min_redeem_points"`
	MaxFuelAmount   int64     `json:"max_fuel_amount" bson:"max_fuel_amount"`
	FuelTypes       []string  `json:"fuel_types" bson:"fuel_types"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// AllowsFuelType reports whether the fuel type is configured for the network
func (s *Settings) AllowsFuelType(fuelType string) bool {
	for _, ft := range s.FuelTypes {
		if ft == fuelType {
			return true
		}
	}
	return false
}
