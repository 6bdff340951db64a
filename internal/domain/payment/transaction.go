package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the state of a gateway transaction
type TransactionStatus string

const (
	// TransactionStatusPending indicates the renter initiated a payment and
	// the provider has not reported an outcome yet
	TransactionStatusPending TransactionStatus = "PENDING"
	// TransactionStatusCompleted indicates the provider confirmed the payment
	// and its ledger effect was applied (terminal)
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	// TransactionStatusFailed indicates the provider reported a failure (terminal)
	TransactionStatusFailed TransactionStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// Kind distinguishes what a successful transaction settles
type Kind string

const (
	// KindRent settles a single scheduled obligation
	KindRent Kind = "RENT"
	// KindAdvance creates a spendable advance balance on the lease
	KindAdvance Kind = "ADVANCE"
)

// IsValid returns true if the kind is valid
func (k Kind) IsValid() bool {
	return k == KindRent || k == KindAdvance
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Transaction is the system's record of one payment-provider attempt, keyed
// by the provider-issued transaction id. It makes exactly one terminal
// transition; once terminal, further notifications for the same id are
// absorbed as no-ops.
type Transaction struct {
	shared.TenantAggregateRoot
	ProviderTransactionID string
	Kind                  Kind
	Amount                decimal.Decimal
	Currency              string
	Provider              string
	CustomerName          string
	CustomerPhone         string
	Status                TransactionStatus
	RawNotification       string
	RawProviderStatus     string
	PaidAt                *time.Time
	LeaseID               uuid.UUID
	ObligationID          *uuid.UUID
	AdvanceID             *uuid.UUID
}

// NewTransaction creates a pending gateway transaction at payment initiation
func NewTransaction(
	tenantID uuid.UUID,
	providerTransactionID string,
	kind Kind,
	amount decimal.Decimal,
	currency, provider string,
	leaseID uuid.UUID,
) (*Transaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if providerTransactionID == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_ID", "Provider transaction ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid transaction kind")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}

	return &Transaction{
		TenantAggregateRoot:   shared.NewTenantAggregateRoot(tenantID),
		ProviderTransactionID: providerTransactionID,
		Kind:                  kind,
		Amount:                amount.Round(2),
		Currency:              currency,
		Provider:              provider,
		Status:                TransactionStatusPending,
		LeaseID:               leaseID,
	}, nil
}

// WithCustomer attaches a snapshot of the paying customer
func (t *Transaction) WithCustomer(name, phone string) *Transaction {
	t.CustomerName = name
	t.CustomerPhone = phone
	return t
}

// WithObligation links the transaction to the obligation it is meant to settle
func (t *Transaction) WithObligation(obligationID uuid.UUID) *Transaction {
	t.ObligationID = &obligationID
	return t
}

// IsTerminal returns true if the transaction already reached its final state
func (t *Transaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// MarkCompleted transitions pending -> completed
func (t *Transaction) MarkCompleted(paidAt time.Time, rawNotification string) error {
	if t.IsTerminal() {
		return shared.NewDomainError("TRANSACTION_ALREADY_FINAL", "Transaction already reached a terminal state")
	}
	t.Status = TransactionStatusCompleted
	t.PaidAt = &paidAt
	t.RawNotification = rawNotification
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTransactionCompletedEvent(t))
	return nil
}

// MarkFailed transitions pending -> failed
func (t *Transaction) MarkFailed(rawNotification string) error {
	if t.IsTerminal() {
		return shared.NewDomainError("TRANSACTION_ALREADY_FINAL", "Transaction already reached a terminal state")
	}
	t.Status = TransactionStatusFailed
	t.RawNotification = rawNotification
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTransactionFailedEvent(t))
	return nil
}

// AttachProviderStatus records the raw payload of an independent status query
func (t *Transaction) AttachProviderStatus(raw string) {
	t.RawProviderStatus = raw
}

// LinkAdvance records the advance payment a completed ADVANCE transaction produced
func (t *Transaction) LinkAdvance(advanceID uuid.UUID) {
	t.AdvanceID = &advanceID
}
