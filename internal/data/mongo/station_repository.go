package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fuelpoints-ledger/internal/domain/station"
)

const (
	// StationCollectionName is the name of the stations collection in MongoDB
	StationCollectionName = "stations"
)

// StationRepository implements the station.Repository interface for MongoDB
type StationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewStationRepository creates a new MongoDB station repository
func NewStationRepository(logger *slog.Logger, db *mongo.Database) station.Repository {
	return &StationRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a station by id.
// Returns ErrStationNotFound if no station exists.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*station.Station, error) {
	collection := r.db.Collection(StationCollectionName)

	var s station.Station
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, station.ErrStationNotFound{StationID: id}
		}
		r.logger.Error("Failed to get station",
			"station_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return &s, nil
}
