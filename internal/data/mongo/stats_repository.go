package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuelpoints-ledger/internal/domain/stats"
)

const (
	// StatsCollectionName is the name of the daily rollup collection in MongoDB
	StatsCollectionName = "station_daily_stats"
)

// StatsRepository implements the stats.Repository interface for MongoDB
type StatsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewStatsRepository creates a new MongoDB stats repository
func NewStatsRepository(logger *slog.Logger, db *mongo.Database) stats.Repository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves one daily rollup, returning nil, nil when none exists yet
func (r *StatsRepository) Get(ctx context.Context, id string) (*stats.DailyStats, error) {
	collection := r.db.Collection(StatsCollectionName)

	var s stats.DailyStats
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // First transaction of the day for this station
		}
		r.logger.Error("Failed to get daily stats",
			"stats_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	return &s, nil
}

// Insert creates the first rollup document of the day for a station
func (r *StatsRepository) Insert(ctx context.Context, s *stats.DailyStats) error {
	collection := r.db.Collection(StatsCollectionName)

	if _, err := collection.InsertOne(ctx, s); err != nil {
		r.logger.Error("Failed to insert daily stats",
			"stats_id", s.ID,
			"error", err)
		return fmt.Errorf("failed to insert daily stats: %w", err)
	}

	return nil
}

// Increment applies one transaction's contribution with $inc on every scalar
// counter. The nested operator entry is only $inc-ed when the pre-read saw
// it; otherwise it is initialized with $set, since incrementing a missing
// nested key is not a safe primitive.
func (r *StatsRepository) Increment(ctx context.Context, id, operatorID string, d stats.Delta, operatorExists bool) error {
	collection := r.db.Collection(StatsCollectionName)

	inc := bson.M{
		"total_fuel_amount":        d.FuelAmount,
		"total_paid_amount":        d.PaidAmount,
		"total_points_distributed": d.PointsCredited,
		"total_points_redeemed":    d.PointsRedeemed,
		"transaction_count":        1,
	}

	var update bson.M
	if operatorExists {
		prefix := "operators." + operatorID + "."
		inc[prefix+"fuel_amount"] = d.FuelAmount
		inc[prefix+"paid_amount"] = d.PaidAmount
		inc[prefix+"points_credited"] = d.PointsCredited
		inc[prefix+"points_redeemed"] = d.PointsRedeemed
		inc[prefix+"tx_count"] = 1
		update = bson.M{"$inc": inc}
	} else {
		update = bson.M{
			"$inc": inc,
			"$set": bson.M{
				"operators." + operatorID: stats.OperatorStats{
					FuelAmount:     d.FuelAmount,
					PaidAmount:     d.PaidAmount,
					PointsCredited: d.PointsCredited,
					PointsRedeemed: d.PointsRedeemed,
					TxCount:        1,
				},
			},
		}
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to increment daily stats",
			"stats_id", id,
			"operator_id", operatorID,
			"error", err)
		return fmt.Errorf("failed to increment daily stats: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("daily stats document %s disappeared during commit", id)
	}

	return nil
}

// Replace overwrites a rollup document wholesale, creating it if absent.
// Used only by the rebuild pass.
func (r *StatsRepository) Replace(ctx context.Context, s *stats.DailyStats) error {
	collection := r.db.Collection(StatsCollectionName)

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts); err != nil {
		r.logger.Error("Failed to replace daily stats",
			"stats_id", s.ID,
			"error", err)
		return fmt.Errorf("failed to replace daily stats: %w", err)
	}

	return nil
}

// ListIDs returns the keys of every stored rollup document
func (r *StatsRepository) ListIDs(ctx context.Context) ([]string, error) {
	collection := r.db.Collection(StatsCollectionName)

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list daily stats ids", "error", err)
		return nil, fmt.Errorf("failed to list daily stats ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode daily stats id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("daily stats cursor error: %w", err)
	}

	return ids, nil
}

// Delete removes a rollup document. Used only by the rebuild cleanup pass
// for keys whose business date moved.
func (r *StatsRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(StatsCollectionName)

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		r.logger.Error("Failed to delete daily stats",
			"stats_id", id,
			"error", err)
		return fmt.Errorf("failed to delete daily stats: %w", err)
	}

	return nil
}

// GetRange returns a station's rollups for dates in [start, end], ascending
func (r *StatsRepository) GetRange(ctx context.Context, stationID, start, end string) ([]*stats.DailyStats, error) {
	collection := r.db.Collection(StatsCollectionName)

	filter := bson.M{
		"station_id": stationID,
		"date": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	opts := options.Find().SetSort(bson.M{"date": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get daily stats range",
			"station_id", stationID,
			"start", start,
			"end", end,
			"error", err)
		return nil, fmt.Errorf("failed to get daily stats range: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*stats.DailyStats
	if err := cursor.All(ctx, &out); err != nil {
		r.logger.Error("Failed to decode daily stats range",
			"station_id", stationID,
			"error", err)
		return nil, fmt.Errorf("failed to decode daily stats range: %w", err)
	}

	return out, nil
}
