package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fuelpoints-ledger/internal/domain/settings"
)

const (
	// SettingsCollectionName is the name of the settings collection in MongoDB
	SettingsCollectionName = "settings"

	// settingsDocumentID identifies the singleton settings document
	settingsDocumentID = "main"
)

// SettingsRepository implements the settings.Repository interface for MongoDB
type SettingsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSettingsRepository creates a new MongoDB settings repository
func NewSettingsRepository(logger *slog.Logger, db *mongo.Database) settings.Repository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get reads the settings singleton.
// Returns ErrNotConfigured if the document was never seeded.
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	collection := r.db.Collection(SettingsCollectionName)

	var s settings.Settings
	err := collection.FindOne(ctx, bson.M{"_id": settingsDocumentID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, settings.ErrNotConfigured
		}
		r.logger.Error("Failed to get settings", "error", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}
