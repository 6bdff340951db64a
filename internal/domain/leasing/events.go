package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdvancePaymentCreatedEvent is raised when a renter pays ahead of schedule
type AdvancePaymentCreatedEvent struct {
	shared.BaseDomainEvent
	AdvanceID uuid.UUID       `json:"advance_id"`
	LeaseID   uuid.UUID       `json:"lease_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidDate  time.Time       `json:"paid_date"`
	Method    PaymentMethod   `json:"method"`
}

// EventType returns the event type name
func (e *AdvancePaymentCreatedEvent) EventType() string {
	return "AdvancePaymentCreated"
}

// NewAdvancePaymentCreatedEvent creates a new AdvancePaymentCreatedEvent
func NewAdvancePaymentCreatedEvent(advance *AdvancePayment) *AdvancePaymentCreatedEvent {
	return &AdvancePaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvancePaymentCreated", "AdvancePayment", advance.ID, advance.TenantID),
		AdvanceID:       advance.ID,
		LeaseID:         advance.LeaseID,
		Amount:          advance.Amount,
		PaidDate:        advance.PaidDate,
		Method:          advance.Method,
	}
}

// AdvancePaymentRefundedEvent is raised when an unused balance is returned
type AdvancePaymentRefundedEvent struct {
	shared.BaseDomainEvent
	AdvanceID      uuid.UUID       `json:"advance_id"`
	LeaseID        uuid.UUID       `json:"lease_id"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Reason         string          `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *AdvancePaymentRefundedEvent) EventType() string {
	return "AdvancePaymentRefunded"
}

// NewAdvancePaymentRefundedEvent creates a new AdvancePaymentRefundedEvent
func NewAdvancePaymentRefundedEvent(advance *AdvancePayment, refunded decimal.Decimal) *AdvancePaymentRefundedEvent {
	return &AdvancePaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvancePaymentRefunded", "AdvancePayment", advance.ID, advance.TenantID),
		AdvanceID:       advance.ID,
		LeaseID:         advance.LeaseID,
		RefundedAmount:  refunded,
		Reason:          advance.RefundReason,
	}
}

// AdvancePaymentTransferredEvent is raised when a balance moves between leases
type AdvancePaymentTransferredEvent struct {
	shared.BaseDomainEvent
	SourceAdvanceID uuid.UUID       `json:"source_advance_id"`
	TargetAdvanceID uuid.UUID       `json:"target_advance_id"`
	SourceLeaseID   uuid.UUID       `json:"source_lease_id"`
	TargetLeaseID   uuid.UUID       `json:"target_lease_id"`
	Amount          decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *AdvancePaymentTransferredEvent) EventType() string {
	return "AdvancePaymentTransferred"
}

// NewAdvancePaymentTransferredEvent creates a new AdvancePaymentTransferredEvent
func NewAdvancePaymentTransferredEvent(source, target *AdvancePayment) *AdvancePaymentTransferredEvent {
	return &AdvancePaymentTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AdvancePaymentTransferred", "AdvancePayment", source.ID, source.TenantID),
		SourceAdvanceID: source.ID,
		TargetAdvanceID: target.ID,
		SourceLeaseID:   source.LeaseID,
		TargetLeaseID:   target.LeaseID,
		Amount:          target.Amount,
	}
}

// ObligationPaymentAppliedEvent is raised when money is applied to an obligation
type ObligationPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	ObligationID uuid.UUID        `json:"obligation_id"`
	LeaseID      uuid.UUID        `json:"lease_id"`
	Applied      decimal.Decimal  `json:"applied"`
	Outstanding  decimal.Decimal  `json:"outstanding"`
	Status       ObligationStatus `json:"status"`
}

// EventType returns the event type name
func (e *ObligationPaymentAppliedEvent) EventType() string {
	return "ObligationPaymentApplied"
}

// NewObligationPaymentAppliedEvent creates a new ObligationPaymentAppliedEvent
func NewObligationPaymentAppliedEvent(obligation *Obligation, applied decimal.Decimal) *ObligationPaymentAppliedEvent {
	return &ObligationPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ObligationPaymentApplied", "Obligation", obligation.ID, obligation.TenantID),
		ObligationID:    obligation.ID,
		LeaseID:         obligation.LeaseID,
		Applied:         applied,
		Outstanding:     obligation.Outstanding(),
		Status:          obligation.Status,
	}
}
