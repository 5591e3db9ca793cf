package mongo

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewRepositories(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	assert.IsType(t, &TransactionRepository{}, NewTransactionRepository(logger, db))
	assert.IsType(t, &CustomerRepository{}, NewCustomerRepository(logger, db))
	assert.IsType(t, &StationRepository{}, NewStationRepository(logger, db))
	assert.IsType(t, &StatsRepository{}, NewStatsRepository(logger, db))
	assert.IsType(t, &SettingsRepository{}, NewSettingsRepository(logger, db))
}

// Query and write behavior is covered against fakes in the engine tests;
// exercising the bson pipelines here would require a live mongod.
