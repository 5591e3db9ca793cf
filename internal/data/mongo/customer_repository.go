package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fuelpoints-ledger/internal/domain/customer"
)

const (
	// CustomerCollectionName is the name of the customers collection in MongoDB
	CustomerCollectionName = "customers"
)

// CustomerRepository implements the customer.Repository interface for MongoDB
type CustomerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCustomerRepository creates a new MongoDB customer repository
func NewCustomerRepository(logger *slog.Logger, db *mongo.Database) customer.Repository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a customer by id.
// Returns ErrCustomerNotFound if no customer exists.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	collection := r.db.Collection(CustomerCollectionName)

	var c customer.Customer
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customer.ErrCustomerNotFound{CustomerID: id}
		}
		r.logger.Error("Failed to get customer",
			"customer_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

// ApplyPointDelta increments the customer's balance with $inc, never an
// overwrite, so concurrent commits for the same customer serialize at the
// storage layer.
func (r *CustomerRepository) ApplyPointDelta(ctx context.Context, id string, delta int64) error {
	collection := r.db.Collection(CustomerCollectionName)

	update := bson.M{
		"$inc": bson.M{"points": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to apply point delta",
			"customer_id", id,
			"delta", delta,
			"error", err)
		return fmt.Errorf("failed to apply point delta: %w", err)
	}

	if result.MatchedCount == 0 {
		return customer.ErrCustomerNotFound{CustomerID: id}
	}

	return nil
}

// GetNames resolves customer ids to display names in one batch read
func (r *CustomerRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	collection := r.db.Collection(CustomerCollectionName)

	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to resolve customer names", "error", err)
		return nil, fmt.Errorf("failed to resolve customer names: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var c customer.Customer
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode customer: %w", err)
		}
		names[c.ID] = c.Name
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("customer cursor error: %w", err)
	}

	return names, nil
}
