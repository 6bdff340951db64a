package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GatewayTransactionModel is the persistence model for the gateway Transaction
// aggregate root. The provider transaction id is globally unique so that a
// replayed notification always resolves to the same row.
type GatewayTransactionModel struct {
	TenantAggregateModel
	ProviderTransactionID string                    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind                  payment.Kind              `gorm:"type:varchar(10);not null"`
	Amount                decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Currency              string                    `gorm:"type:varchar(10);not null"`
	Provider              string                    `gorm:"type:varchar(50);not null"`
	CustomerName          string                    `gorm:"type:varchar(200)"`
	CustomerPhone         string                    `gorm:"type:varchar(30)"`
	Status                payment.TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RawNotification       string                    `gorm:"type:text"`
	RawProviderStatus     string                    `gorm:"type:text"`
	PaidAt                *time.Time                `gorm:""`
	LeaseID               uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ObligationID          *uuid.UUID                `gorm:"type:uuid;index"`
	AdvanceID             *uuid.UUID                `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (GatewayTransactionModel) TableName() string {
	return "gateway_transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *GatewayTransactionModel) ToDomain() *payment.Transaction {
	return &payment.Transaction{
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
		ProviderTransactionID: m.ProviderTransactionID,
		Kind:                  m.Kind,
		Amount:                m.Amount,
		Currency:              m.Currency,
		Provider:              m.Provider,
		CustomerName:          m.CustomerName,
		CustomerPhone:         m.CustomerPhone,
		Status:                m.Status,
		RawNotification:       m.RawNotification,
		RawProviderStatus:     m.RawProviderStatus,
		PaidAt:                m.PaidAt,
		LeaseID:               m.LeaseID,
		ObligationID:          m.ObligationID,
		AdvanceID:             m.AdvanceID,
	}
}

// FromDomain populates the persistence model from a domain Transaction
func (m *GatewayTransactionModel) FromDomain(t *payment.Transaction) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.ProviderTransactionID = t.ProviderTransactionID
	m.Kind = t.Kind
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Provider = t.Provider
	m.CustomerName = t.CustomerName
	m.CustomerPhone = t.CustomerPhone
	m.Status = t.Status
	m.RawNotification = t.RawNotification
	m.RawProviderStatus = t.RawProviderStatus
	m.PaidAt = t.PaidAt
	m.LeaseID = t.LeaseID
	m.ObligationID = t.ObligationID
	m.AdvanceID = t.AdvanceID
}

// GatewayTransactionModelFromDomain creates a new persistence model from a domain Transaction
func GatewayTransactionModelFromDomain(t *payment.Transaction) *GatewayTransactionModel {
	m := &GatewayTransactionModel{}
	m.FromDomain(t)
	return m
}
