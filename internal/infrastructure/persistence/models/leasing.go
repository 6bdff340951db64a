package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseModel is the persistence model for the Lease aggregate root.
type LeaseModel struct {
	TenantAggregateModel
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	RenterID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Reference  string     `gorm:"type:varchar(100)"`
	StartDate  time.Time  `gorm:"not null"`
	EndDate    *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease
func (m *LeaseModel) ToDomain() *leasing.Lease {
	return &leasing.Lease{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		PropertyID: m.PropertyID,
		OwnerID:    m.OwnerID,
		RenterID:   m.RenterID,
		Reference:  m.Reference,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain Lease
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.PropertyID = l.PropertyID
	m.OwnerID = l.OwnerID
	m.RenterID = l.RenterID
	m.Reference = l.Reference
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
}

// ObligationModel is the persistence model for the Obligation aggregate root.
// The (tenant, lease, due date, type) unique index prevents duplicate schedule
// generation.
type ObligationModel struct {
	TenantAggregateModel
	LeaseID    uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_obligation_schedule,priority:2;index"`
	DueDate    time.Time               `gorm:"not null;uniqueIndex:idx_obligation_schedule,priority:3;index"`
	PaidDate   *time.Time              `gorm:""`
	Amount     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	PaidAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Status     leasing.ObligationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Type       leasing.ObligationType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_obligation_schedule,priority:4"`
	Method     *leasing.PaymentMethod   `gorm:"type:varchar(20)"`
	Reference  string                  `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ObligationModel) TableName() string {
	return "obligations"
}

// ToDomain converts the persistence model to a domain Obligation
func (m *ObligationModel) ToDomain() *leasing.Obligation {
	return &leasing.Obligation{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		LeaseID:    m.LeaseID,
		DueDate:    m.DueDate,
		PaidDate:   m.PaidDate,
		Amount:     m.Amount,
		PaidAmount: m.PaidAmount,
		Status:     m.Status,
		Type:       m.Type,
		Method:     m.Method,
		Reference:  m.Reference,
	}
}

// FromDomain populates the persistence model from a domain Obligation
func (m *ObligationModel) FromDomain(o *leasing.Obligation) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.LeaseID = o.LeaseID
	m.DueDate = o.DueDate
	m.PaidDate = o.PaidDate
	m.Amount = o.Amount
	m.PaidAmount = o.PaidAmount
	m.Status = o.Status
	m.Type = o.Type
	m.Method = o.Method
	m.Reference = o.Reference
}

// ObligationModelFromDomain creates a new persistence model from a domain Obligation
func ObligationModelFromDomain(o *leasing.Obligation) *ObligationModel {
	m := &ObligationModel{}
	m.FromDomain(o)
	return m
}

// AdvancePaymentModel is the persistence model for the AdvancePayment aggregate root.
type AdvancePaymentModel struct {
	TenantAggregateModel
	LeaseID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	RemainingBalance decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaidDate         time.Time             `gorm:"not null;index"`
	Method           leasing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference        string                `gorm:"type:varchar(100)"`
	Notes            string                `gorm:"type:text"`
	Status           leasing.AdvanceStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	RefundedAt       *time.Time            `gorm:""`
	RefundReason     string                `gorm:"type:varchar(500)"`
	TransferredAt    *time.Time            `gorm:""`
	TransferReason   string                `gorm:"type:varchar(500)"`
	TransferredToID  *uuid.UUID            `gorm:"type:uuid"`
	TransferredFrom  *uuid.UUID            `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AdvancePaymentModel) TableName() string {
	return "advance_payments"
}

// ToDomain converts the persistence model to a domain AdvancePayment
func (m *AdvancePaymentModel) ToDomain() *leasing.AdvancePayment {
	return &leasing.AdvancePayment{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		LeaseID:          m.LeaseID,
		Amount:           m.Amount,
		RemainingBalance: m.RemainingBalance,
		PaidDate:         m.PaidDate,
		Method:           m.Method,
		Reference:        m.Reference,
		Notes:            m.Notes,
		Status:           m.Status,
		RefundedAt:       m.RefundedAt,
		RefundReason:     m.RefundReason,
		TransferredAt:    m.TransferredAt,
		TransferReason:   m.TransferReason,
		TransferredToID:  m.TransferredToID,
		TransferredFrom:  m.TransferredFrom,
	}
}

// FromDomain populates the persistence model from a domain AdvancePayment
func (m *AdvancePaymentModel) FromDomain(a *leasing.AdvancePayment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.LeaseID = a.LeaseID
	m.Amount = a.Amount
	m.RemainingBalance = a.RemainingBalance
	m.PaidDate = a.PaidDate
	m.Method = a.Method
	m.Reference = a.Reference
	m.Notes = a.Notes
	m.Status = a.Status
	m.RefundedAt = a.RefundedAt
	m.RefundReason = a.RefundReason
	m.TransferredAt = a.TransferredAt
	m.TransferReason = a.TransferReason
	m.TransferredToID = a.TransferredToID
	m.TransferredFrom = a.TransferredFrom
}

// AdvancePaymentModelFromDomain creates a new persistence model from a domain AdvancePayment
func AdvancePaymentModelFromDomain(a *leasing.AdvancePayment) *AdvancePaymentModel {
	m := &AdvancePaymentModel{}
	m.FromDomain(a)
	return m
}
