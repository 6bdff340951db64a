package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryRecordedEvent is raised when a new ledger entry is appended to a scope
type EntryRecordedEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID       `json:"entry_id"`
	PropertyID *uuid.UUID      `json:"property_id,omitempty"`
	OwnerID    *uuid.UUID      `json:"owner_id,omitempty"`
	EntryDate  time.Time       `json:"entry_date"`
	Type       EntryType       `json:"type"`
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *EntryRecordedEvent) EventType() string {
	return "LedgerEntryRecorded"
}

// NewEntryRecordedEvent creates a new EntryRecordedEvent
func NewEntryRecordedEvent(entry *Entry) *EntryRecordedEvent {
	return &EntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntryRecorded", "LedgerEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		PropertyID:      entry.PropertyID,
		OwnerID:         entry.OwnerID,
		EntryDate:       entry.EntryDate,
		Type:            entry.EntryType,
		Category:        entry.Category,
		Amount:          entry.Amount,
	}
}

// EntryUpdatedEvent is raised when an ordering-relevant field of an entry changes
type EntryUpdatedEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID       `json:"entry_id"`
	PropertyID *uuid.UUID      `json:"property_id,omitempty"`
	OwnerID    *uuid.UUID      `json:"owner_id,omitempty"`
	EntryDate  time.Time       `json:"entry_date"`
	Type       EntryType       `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *EntryUpdatedEvent) EventType() string {
	return "LedgerEntryUpdated"
}

// NewEntryUpdatedEvent creates a new EntryUpdatedEvent
func NewEntryUpdatedEvent(entry *Entry) *EntryUpdatedEvent {
	return &EntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LedgerEntryUpdated", "LedgerEntry", entry.ID, entry.TenantID),
		EntryID:         entry.ID,
		PropertyID:      entry.PropertyID,
		OwnerID:         entry.OwnerID,
		EntryDate:       entry.EntryDate,
		Type:            entry.EntryType,
		Amount:          entry.Amount,
	}
}
