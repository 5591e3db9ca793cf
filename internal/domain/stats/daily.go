// Package stats models the per-station, per-business-day rollup of
// transaction totals with a per-operator breakdown. The same accumulation
// logic serves both the engine's incremental path and the reconciler's
// from-scratch rebuild, so the two paths cannot drift apart.
package stats

import (
	"time"

	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// DateLayout is the calendar-day bucket key format
const DateLayout = "2006-01-02"

// OperatorStats holds one operator's share of a station's daily totals
type OperatorStats struct {
	FuelAmount     int64 `json:"fuel_amount" bson:"fuel_amount"`
	PaidAmount     int64 `json:"paid_amount" bson:"paid_amount"`
	PointsCredited int64 `json:"points_credited" bson:"points_credited"`
	PointsRedeemed int64 `json:"points_redeemed" bson:"points_redeemed"`
	TxCount        int64 `json:"tx_count" bson:"tx_count"`
}

// DailyStats is the rollup document for one (business date, station) pair.
// Its totals must always equal the sum over the ledger records sharing that
// key; the per-operator map carries the same counters scoped per operator.
type DailyStats struct {
	ID                     string                   `json:"id" bson:"_id"` // date_station composite key
	StationID              string                   `json:"station_id" bson:"station_id"`
	Date                   string                   `json:"date" bson:"date"`
	TotalFuelAmount        int64                    `json:"total_fuel_amount" bson:"total_fuel_amount"`
	TotalPaidAmount        int64                    `json:"total_paid_amount" bson:"total_paid_amount"`
	TotalPointsDistributed int64                    `json:"total_points_distributed" bson:"total_points_distributed"`
	TotalPointsRedeemed    int64                    `json:"total_points_redeemed" bson:"total_points_redeemed"`
	TransactionCount       int64                    `json:"transaction_count" bson:"transaction_count"`
	Operators              map[string]OperatorStats `json:"operators" bson:"operators"`
}

// Delta is one transaction's additive contribution to a daily rollup.
// All counters are pure sums, so the order of application is irrelevant.
type Delta struct {
	FuelAmount     int64
	PaidAmount     int64
	PointsCredited int64
	PointsRedeemed int64
}

// DeltaFromRecord derives a ledger record's rollup contribution
func DeltaFromRecord(rec *transaction.Record) Delta {
	return Delta{
		FuelAmount:     rec.FuelAmount,
		PaidAmount:     rec.PaidAmount,
		PointsCredited: rec.PointsCredited(),
		PointsRedeemed: rec.PointsRedeemed,
	}
}

// DocumentID builds the composite key for a (business date, station) bucket
func DocumentID(date, stationID string) string {
	return date + "_" + stationID
}

// BusinessDate converts a commit timestamp into the network's business-day
// bucket by shifting to the fixed local offset before taking the calendar
// date. A late-night UTC purchase made during local business hours lands in
// the correct bucket.
func BusinessDate(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format(DateLayout)
}

// New initializes a rollup document from the first transaction of the day
// for a station, including a fresh operator breakdown entry.
func New(date, stationID, operatorID string, d Delta) *DailyStats {
	s := &DailyStats{
		ID:        DocumentID(date, stationID),
		StationID: stationID,
		Date:      date,
		Operators: make(map[string]OperatorStats),
	}
	s.Apply(operatorID, d)
	return s
}

// Apply adds one transaction's contribution to the scalar counters and to
// the named operator's nested counters, initializing the operator entry if
// this is their first transaction of the day.
func (s *DailyStats) Apply(operatorID string, d Delta) {
	s.TotalFuelAmount += d.FuelAmount
	s.TotalPaidAmount += d.PaidAmount
	s.TotalPointsDistributed += d.PointsCredited
	s.TotalPointsRedeemed += d.PointsRedeemed
	s.TransactionCount++

	op := s.Operators[operatorID]
	op.FuelAmount += d.FuelAmount
	op.PaidAmount += d.PaidAmount
	op.PointsCredited += d.PointsCredited
	op.PointsRedeemed += d.PointsRedeemed
	op.TxCount++
	s.Operators[operatorID] = op
}

// HasOperator reports whether the operator already has a breakdown entry.
// The engine branches on this before writing: a missing nested key cannot be
// blindly incremented in the document store.
func (s *DailyStats) HasOperator(operatorID string) bool {
	_, ok := s.Operators[operatorID]
	return ok
}
