package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the ledger Entry aggregate root.
type LedgerEntryModel struct {
	TenantAggregateModel
	PropertyID     *uuid.UUID       `gorm:"type:uuid;index:idx_ledger_scope_property,priority:2"`
	OwnerID        *uuid.UUID       `gorm:"type:uuid;index:idx_ledger_scope_owner,priority:2"`
	EntryDate      time.Time        `gorm:"not null;index"`
	Description    string           `gorm:"type:varchar(500);not null"`
	EntryType      ledger.EntryType `gorm:"type:varchar(10);not null"`
	Category       ledger.Category  `gorm:"type:varchar(20);not null;index"`
	Amount         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Reference      string           `gorm:"type:varchar(100)"`
	RunningBalance *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ObligationID   *uuid.UUID       `gorm:"type:uuid;index"`
	ExpenseID      *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain Entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
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
		PropertyID:     m.PropertyID,
		OwnerID:        m.OwnerID,
		EntryDate:      m.EntryDate,
		Description:    m.Description,
		EntryType:      m.EntryType,
		Category:       m.Category,
		Amount:         m.Amount,
		Reference:      m.Reference,
		RunningBalance: m.RunningBalance,
		ObligationID:   m.ObligationID,
		ExpenseID:      m.ExpenseID,
	}
}

// FromDomain populates the persistence model from a domain Entry
func (m *LedgerEntryModel) FromDomain(e *ledger.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.PropertyID = e.PropertyID
	m.OwnerID = e.OwnerID
	m.EntryDate = e.EntryDate
	m.Description = e.Description
	m.EntryType = e.EntryType
	m.Category = e.Category
	m.Amount = e.Amount
	m.Reference = e.Reference
	m.RunningBalance = e.RunningBalance
	m.ObligationID = e.ObligationID
	m.ExpenseID = e.ExpenseID
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain Entry
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}
