// Package mongo provides MongoDB implementations of the domain repositories.
// Every write the transaction engine performs lives in this package; the
// methods accept the caller's context unchanged so that operations invoked
// inside a session transaction join it automatically.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the ledger collection in MongoDB
	TransactionCollectionName = "transactions"
)

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a new ledger record. The idempotency key is the document id,
// so a concurrent duplicate surfaces as a key conflict and is returned as
// ErrDuplicateRecord for the engine to resolve as a replay.
func (r *TransactionRepository) Insert(ctx context.Context, rec *transaction.Record) error {
	collection := r.db.Collection(TransactionCollectionName)

	_, err := collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return transaction.ErrDuplicateRecord{IdempotencyKey: rec.IdempotencyKey}
		}
		r.logger.Error("Failed to insert transaction record",
			"idempotency_key", rec.IdempotencyKey,
			"error", err)
		return fmt.Errorf("failed to insert transaction record: %w", err)
	}

	return nil
}

// GetByKey retrieves a ledger record by its idempotency key.
// Returns ErrRecordNotFound if no record exists for the key.
func (r *TransactionRepository) GetByKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"_id": idempotencyKey}
	var rec transaction.Record
	err := collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrRecordNotFound{IdempotencyKey: idempotencyKey}
		}
		r.logger.Error("Failed to get transaction record",
			"idempotency_key", idempotencyKey,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return &rec, nil
}

// stationFilter builds the BSON filter for a station ledger query
func stationFilter(stationID string, f transaction.Filter) bson.M {
	filter := bson.M{"station_id": stationID}
	if !f.Start.IsZero() || !f.End.IsZero() {
		created := bson.M{}
		if !f.Start.IsZero() {
			created["$gte"] = f.Start
		}
		if !f.End.IsZero() {
			created["$lte"] = f.End
		}
		filter["created_at"] = created
	}
	if f.FuelType != "" {
		filter["fuel_type"] = f.FuelType
	}
	if f.OperatorID != "" {
		filter["operator_id"] = f.OperatorID
	}
	return filter
}

// ListByStation retrieves paginated ledger records for a station, optionally
// narrowed by time range, fuel type, and operator. Results are sorted by
// creation time in descending order (newest first).
func (r *TransactionRepository) ListByStation(ctx context.Context, stationID string, f transaction.Filter, limit, offset int) ([]*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, stationFilter(stationID, f), opts)
	if err != nil {
		r.logger.Error("Failed to list transaction records",
			"station_id", stationID,
			"error", err)
		return nil, fmt.Errorf("failed to list transaction records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode transaction records",
			"station_id", stationID,
			"error", err)
		return nil, fmt.Errorf("failed to decode transaction records: %w", err)
	}

	return records, nil
}

// CountByStation counts the ledger records matching a station query
func (r *TransactionRepository) CountByStation(ctx context.Context, stationID string, f transaction.Filter) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	count, err := collection.CountDocuments(ctx, stationFilter(stationID, f))
	if err != nil {
		r.logger.Error("Failed to count transaction records",
			"station_id", stationID,
			"error", err)
		return 0, fmt.Errorf("failed to count transaction records: %w", err)
	}

	return count, nil
}

// ListByCustomer retrieves paginated ledger records for a customer,
// newest first.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"customer_id": customerID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list customer transactions",
			"customer_id", customerID,
			"error", err)
		return nil, fmt.Errorf("failed to list customer transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode customer transactions",
			"customer_id", customerID,
			"error", err)
		return nil, fmt.Errorf("failed to decode customer transactions: %w", err)
	}

	return records, nil
}

// CountByCustomer counts the ledger records for a customer
func (r *TransactionRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		r.logger.Error("Failed to count customer transactions",
			"customer_id", customerID,
			"error", err)
		return 0, fmt.Errorf("failed to count customer transactions: %w", err)
	}

	return count, nil
}

// ForEach streams the full ledger through fn in insertion order. The cursor
// reads outside any session, so a rebuild racing an in-flight commit may be
// stale by that one commit.
func (r *TransactionRepository) ForEach(ctx context.Context, fn func(rec *transaction.Record) error) error {
	collection := r.db.Collection(TransactionCollectionName)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to open ledger cursor", "error", err)
		return fmt.Errorf("failed to open ledger cursor: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec transaction.Record
		if err := cursor.Decode(&rec); err != nil {
			r.logger.Error("Failed to decode ledger record", "error", err)
			return fmt.Errorf("failed to decode ledger record: %w", err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("ledger cursor error: %w", err)
	}

	return nil
}
