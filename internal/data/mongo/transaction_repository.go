// Package mongo provides the MongoDB implementation of the transaction
// ledger. Records are append-only: they are created once per operation
// attempt and never updated or deleted.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/account-ledger-core/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction collection in MongoDB
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

// Create appends a new transaction record. Transaction IDs are freshly
// generated per attempt, so concurrent appends never conflict structurally.
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	_, err := collection.InsertOne(ctx, tx)
	if err != nil {
		r.logger.Error("Failed to create transaction record",
			"transaction_id", tx.TransactionID,
			"error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a transaction record by its ID.
// Returns ErrTransactionNotFound if no record exists.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var tx transaction.Transaction
	err := collection.FindOne(ctx, filter).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction record",
			"transaction_id", transactionID,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return &tx, nil
}
