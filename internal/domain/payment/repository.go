package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	LeaseID *uuid.UUID
	Kind    *Kind
	Status  *TransactionStatus
}

// TransactionRepository defines the interface for gateway transaction
// persistence. The provider transaction id is globally unique: webhook
// deliveries carry no tenant credentials, so lookups key on it alone.
type TransactionRepository interface {
	// Create creates a new pending transaction
	Create(ctx context.Context, transaction *Transaction) error

	// Save updates a transaction with optimistic locking
	Save(ctx context.Context, transaction *Transaction) error

	// FindByID finds a transaction by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)

	// FindByProviderTransactionID finds a transaction by its provider id
	FindByProviderTransactionID(ctx context.Context, providerTransactionID string) (*Transaction, error)

	// MarkCompletedIfPending atomically flips pending -> completed and
	// returns true if this call won the transition; false means another
	// delivery already finalized the transaction
	MarkCompletedIfPending(ctx context.Context, id uuid.UUID, paidAt time.Time, rawNotification string) (bool, error)

	// MarkFailedIfPending atomically flips pending -> failed and returns
	// true if this call won the transition
	MarkFailedIfPending(ctx context.Context, id uuid.UUID, rawNotification string) (bool, error)

	// List returns transactions matching the filter with total count
	List(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]*Transaction, int64, error)
}
