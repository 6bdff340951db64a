package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ObligationStatus represents the settlement state of an obligation
type ObligationStatus string

const (
	// ObligationStatusPending indicates nothing has been paid yet
	ObligationStatusPending ObligationStatus = "PENDING"
	// ObligationStatusPartial indicates part of the amount is covered
	ObligationStatusPartial ObligationStatus = "PARTIAL"
	// ObligationStatusPaid indicates the amount is fully covered (terminal)
	ObligationStatusPaid ObligationStatus = "PAID"
	// ObligationStatusOverdue indicates the due date passed with money still owed
	ObligationStatusOverdue ObligationStatus = "OVERDUE"
)

// IsValid returns true if the status is valid
func (s ObligationStatus) IsValid() bool {
	switch s {
	case ObligationStatusPending, ObligationStatusPartial, ObligationStatusPaid, ObligationStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of ObligationStatus
func (s ObligationStatus) String() string {
	return string(s)
}

// CanReceivePayment returns true if payments can still be applied
func (s ObligationStatus) CanReceivePayment() bool {
	return s != ObligationStatusPaid
}

// ObligationType represents what the renter owes the money for
type ObligationType string

const (
	ObligationTypeRent    ObligationType = "RENT"
	ObligationTypeDeposit ObligationType = "DEPOSIT"
	ObligationTypeFee     ObligationType = "FEE"
	ObligationTypeOther   ObligationType = "OTHER"
)

// IsValid returns true if the obligation type is valid
func (t ObligationType) IsValid() bool {
	switch t {
	case ObligationTypeRent, ObligationTypeDeposit, ObligationTypeFee, ObligationTypeOther:
		return true
	}
	return false
}

// String returns the string representation of ObligationType
func (t ObligationType) String() string {
	return string(t)
}

// PaymentMethod represents how money was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMobileMoney,
		PaymentMethodCheque, PaymentMethodOnline:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Obligation is a scheduled amount a renter owes on a lease by a due date.
// PaidAmount accumulates partial settlements; the status flips to PAID only
// when the amount is fully covered. An obligation is uniquely identified by
// (lease, due date, type) to prevent duplicate schedule generation.
type Obligation struct {
	shared.TenantAggregateRoot
	LeaseID    uuid.UUID
	DueDate    time.Time
	PaidDate   *time.Time
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     ObligationStatus
	Type       ObligationType
	Method     *PaymentMethod
	Reference  string
}

// NewObligation creates a new pending obligation
func NewObligation(
	tenantID, leaseID uuid.UUID,
	dueDate time.Time,
	amount decimal.Decimal,
	obligationType ObligationType,
	reference string,
) (*Obligation, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !obligationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OBLIGATION_TYPE", "Invalid obligation type")
	}

	return &Obligation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LeaseID:             leaseID,
		DueDate:             dueDate,
		Amount:              amount.Round(2),
		PaidAmount:          decimal.Zero,
		Status:              ObligationStatusPending,
		Type:                obligationType,
		Reference:           reference,
	}, nil
}

// Outstanding returns the amount still owed
func (o *Obligation) Outstanding() decimal.Decimal {
	return o.Amount.Sub(o.PaidAmount)
}

// IsPaid returns true if the obligation is fully settled
func (o *Obligation) IsPaid() bool {
	return o.Status == ObligationStatusPaid
}

// ApplyPayment applies up to the outstanding amount and returns how much was
// actually consumed. The obligation flips to PAID with the given paid date
// only when fully covered; a partial application leaves it open for the next
// allocation cycle.
func (o *Obligation) ApplyPayment(amount decimal.Decimal, at time.Time, method PaymentMethod) (decimal.Decimal, error) {
	if !o.Status.CanReceivePayment() {
		return decimal.Zero, shared.NewDomainError("OBLIGATION_ALREADY_PAID", "Obligation is already fully paid")
	}
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	applied := decimal.Min(o.Outstanding(), amount)
	o.PaidAmount = o.PaidAmount.Add(applied)

	if o.Outstanding().IsZero() {
		paidAt := at
		o.Status = ObligationStatusPaid
		o.PaidDate = &paidAt
	} else if o.Status == ObligationStatusPending {
		o.Status = ObligationStatusPartial
	}
	o.Method = &method
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewObligationPaymentAppliedEvent(o, applied))
	return applied, nil
}

// MarkOverdue transitions an unpaid obligation whose due date has passed.
// PAID is terminal and never becomes overdue.
func (o *Obligation) MarkOverdue(asOf time.Time) error {
	if o.Status == ObligationStatusPaid {
		return shared.NewDomainError("OBLIGATION_ALREADY_PAID", "Paid obligations cannot become overdue")
	}
	if !o.DueDate.Before(asOf) {
		return shared.NewDomainError("OBLIGATION_NOT_DUE", "Obligation is not past its due date")
	}
	o.Status = ObligationStatusOverdue
	o.UpdatedAt = time.Now()
	return nil
}
