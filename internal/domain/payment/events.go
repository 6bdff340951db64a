package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionCompletedEvent is raised when a gateway transaction completes
type TransactionCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionID         uuid.UUID       `json:"transaction_id"`
	ProviderTransactionID string          `json:"provider_transaction_id"`
	Kind                  Kind            `json:"kind"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	LeaseID               uuid.UUID       `json:"lease_id"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
}

// EventType returns the event type name
func (e *TransactionCompletedEvent) EventType() string {
	return "GatewayTransactionCompleted"
}

// NewTransactionCompletedEvent creates a new TransactionCompletedEvent
func NewTransactionCompletedEvent(t *Transaction) *TransactionCompletedEvent {
	return &TransactionCompletedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent("GatewayTransactionCompleted", "GatewayTransaction", t.ID, t.TenantID),
		TransactionID:         t.ID,
		ProviderTransactionID: t.ProviderTransactionID,
		Kind:                  t.Kind,
		Amount:                t.Amount,
		Currency:              t.Currency,
		LeaseID:               t.LeaseID,
		PaidAt:                t.PaidAt,
	}
}

// TransactionFailedEvent is raised when the provider reports a failure
type TransactionFailedEvent struct {
	shared.BaseDomainEvent
	TransactionID         uuid.UUID `json:"transaction_id"`
	ProviderTransactionID string    `json:"provider_transaction_id"`
	Kind                  Kind      `json:"kind"`
	LeaseID               uuid.UUID `json:"lease_id"`
}

// EventType returns the event type name
func (e *TransactionFailedEvent) EventType() string {
	return "GatewayTransactionFailed"
}

// NewTransactionFailedEvent creates a new TransactionFailedEvent
func NewTransactionFailedEvent(t *Transaction) *TransactionFailedEvent {
	return &TransactionFailedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent("GatewayTransactionFailed", "GatewayTransaction", t.ID, t.TenantID),
		TransactionID:         t.ID,
		ProviderTransactionID: t.ProviderTransactionID,
		Kind:                  t.Kind,
		LeaseID:               t.LeaseID,
	}
}
