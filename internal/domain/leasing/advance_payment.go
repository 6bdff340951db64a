package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdvanceStatus represents the state of an advance payment balance.
// It is a pure function of the remaining balance and whether a refund or
// transfer was issued, never set independently.
type AdvanceStatus string

const (
	// AdvanceStatusAvailable indicates no allocation has consumed the balance yet
	AdvanceStatusAvailable AdvanceStatus = "AVAILABLE"
	// AdvanceStatusPartiallyUsed indicates some balance remains after allocation
	AdvanceStatusPartiallyUsed AdvanceStatus = "PARTIALLY_USED"
	// AdvanceStatusExhausted indicates the balance reached zero through
	// allocation or transfer (terminal)
	AdvanceStatusExhausted AdvanceStatus = "EXHAUSTED"
	// AdvanceStatusRefunded indicates the unused balance was returned to the
	// renter (terminal)
	AdvanceStatusRefunded AdvanceStatus = "REFUNDED"
)

// IsValid returns true if the status is valid
func (s AdvanceStatus) IsValid() bool {
	switch s {
	case AdvanceStatusAvailable, AdvanceStatusPartiallyUsed, AdvanceStatusExhausted, AdvanceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of AdvanceStatus
func (s AdvanceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further allocation can consume the advance
func (s AdvanceStatus) IsTerminal() bool {
	return s == AdvanceStatusExhausted || s == AdvanceStatusRefunded
}

// AdvancePayment holds renter funds paid ahead of schedule as a spendable
// balance on a lease. The balance only ever decreases: allocation consumes
// it against pending obligations, a refund returns it to the renter, and a
// transfer moves it onto another lease as a fresh record.
type AdvancePayment struct {
	shared.TenantAggregateRoot
	LeaseID          uuid.UUID
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	PaidDate         time.Time
	Method           PaymentMethod
	Reference        string
	Notes            string
	Status           AdvanceStatus
	RefundedAt       *time.Time
	RefundReason     string
	TransferredAt    *time.Time
	TransferReason   string
	TransferredToID  *uuid.UUID
	TransferredFrom  *uuid.UUID
}

// NewAdvancePayment creates a new advance payment with its full balance available
func NewAdvancePayment(
	tenantID, leaseID uuid.UUID,
	amount decimal.Decimal,
	paidDate time.Time,
	method PaymentMethod,
	reference, notes string,
) (*AdvancePayment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Advance amount must be positive")
	}
	if paidDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAID_DATE", "Paid date cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	a := &AdvancePayment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LeaseID:             leaseID,
		Amount:              amount.Round(2),
		RemainingBalance:    amount.Round(2),
		PaidDate:            paidDate,
		Method:              method,
		Reference:           reference,
		Notes:               notes,
		Status:              AdvanceStatusAvailable,
	}
	a.AddDomainEvent(NewAdvancePaymentCreatedEvent(a))
	return a, nil
}

// CanAllocate returns true if the advance still has balance to consume
func (a *AdvancePayment) CanAllocate() bool {
	return !a.Status.IsTerminal() && a.RemainingBalance.IsPositive()
}

// Consume deducts up to the remaining balance and returns how much was taken
func (a *AdvancePayment) Consume(amount decimal.Decimal) (decimal.Decimal, error) {
	if !a.CanAllocate() {
		return decimal.Zero, shared.NewDomainError("ADVANCE_NOT_ALLOCATABLE", "Advance payment has no spendable balance")
	}
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Consumption amount must be positive")
	}

	consumed := decimal.Min(a.RemainingBalance, amount)
	a.RemainingBalance = a.RemainingBalance.Sub(consumed)
	a.refreshStatus()
	a.UpdatedAt = time.Now()
	return consumed, nil
}

// Refund returns the unused balance to the renter and forecloses further
// allocation. Only legal while spendable balance remains.
func (a *AdvancePayment) Refund(reason string) (decimal.Decimal, error) {
	if a.Status == AdvanceStatusRefunded {
		return decimal.Zero, shared.NewDomainError("ADVANCE_ALREADY_REFUNDED", "Advance payment was already refunded")
	}
	if !a.CanAllocate() {
		return decimal.Zero, shared.NewDomainError("ADVANCE_NOT_REFUNDABLE", "Advance payment has no remaining balance to refund")
	}

	refunded := a.RemainingBalance
	now := time.Now()
	a.RemainingBalance = decimal.Zero
	a.RefundedAt = &now
	a.RefundReason = reason
	a.Status = AdvanceStatusRefunded
	a.UpdatedAt = now
	a.AddDomainEvent(NewAdvancePaymentRefundedEvent(a, refunded))
	return refunded, nil
}

// TransferTo closes this advance and opens a new available one on the target
// lease carrying the remaining balance. The two records reference each other
// so the audit trail survives the move.
func (a *AdvancePayment) TransferTo(targetLeaseID uuid.UUID, reason string) (*AdvancePayment, error) {
	if targetLeaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Target lease ID cannot be empty")
	}
	if targetLeaseID == a.LeaseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer an advance onto its own lease")
	}
	if !a.CanAllocate() {
		return nil, shared.NewDomainError("ADVANCE_NOT_TRANSFERABLE", "Advance payment has no remaining balance to transfer")
	}

	transferred, err := NewAdvancePayment(a.TenantID, targetLeaseID, a.RemainingBalance, a.PaidDate, a.Method, a.Reference, a.Notes)
	if err != nil {
		return nil, err
	}
	transferred.TransferredFrom = &a.ID

	now := time.Now()
	a.RemainingBalance = decimal.Zero
	a.TransferredAt = &now
	a.TransferReason = reason
	a.TransferredToID = &transferred.ID
	a.Status = AdvanceStatusExhausted
	a.UpdatedAt = now
	a.AddDomainEvent(NewAdvancePaymentTransferredEvent(a, transferred))
	return transferred, nil
}

// refreshStatus derives the status from the remaining balance
func (a *AdvancePayment) refreshStatus() {
	if a.RefundedAt != nil {
		a.Status = AdvanceStatusRefunded
		return
	}
	switch {
	case a.RemainingBalance.IsZero():
		a.Status = AdvanceStatusExhausted
	case a.RemainingBalance.Equal(a.Amount):
		a.Status = AdvanceStatusAvailable
	default:
		a.Status = AdvanceStatusPartiallyUsed
	}
}
