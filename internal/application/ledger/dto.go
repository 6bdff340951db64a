package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// RecordEntryRequest represents a request to record a ledger entry
type RecordEntryRequest struct {
	PropertyID   *uuid.UUID      `json:"property_id"`
	OwnerID      *uuid.UUID      `json:"owner_id"`
	EntryDate    time.Time       `json:"entry_date" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	EntryType    string          `json:"entry_type" binding:"required,oneof=CREDIT DEBIT"`
	Category     string          `json:"category" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reference    string          `json:"reference"`
	ObligationID *uuid.UUID      `json:"obligation_id"`
	ExpenseID    *uuid.UUID      `json:"expense_id"`
}

// UpdateEntryRequest represents a request to update a ledger entry
type UpdateEntryRequest struct {
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Description string          `json:"description" binding:"required"`
	EntryType   string          `json:"entry_type" binding:"required,oneof=CREDIT DEBIT"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Reference   string          `json:"reference"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID             uuid.UUID        `json:"id"`
	PropertyID     *uuid.UUID       `json:"property_id,omitempty"`
	OwnerID        *uuid.UUID       `json:"owner_id,omitempty"`
	EntryDate      time.Time        `json:"entry_date"`
	Description    string           `json:"description"`
	EntryType      string           `json:"entry_type"`
	Category       string           `json:"category"`
	Amount         decimal.Decimal  `json:"amount"`
	Reference      string           `json:"reference,omitempty"`
	RunningBalance *decimal.Decimal `json:"running_balance,omitempty"`
	ObligationID   *uuid.UUID       `json:"obligation_id,omitempty"`
	ExpenseID      *uuid.UUID       `json:"expense_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// StatisticsResponse summarizes ledger activity for a scope
type StatisticsResponse struct {
	TotalCredits  decimal.Decimal `json:"total_credits"`
	TotalDebits   decimal.Decimal `json:"total_debits"`
	Balance       decimal.Decimal `json:"balance"`
	PeriodCredits decimal.Decimal `json:"period_credits"`
	PeriodDebits  decimal.Decimal `json:"period_debits"`
	PeriodNet     decimal.Decimal `json:"period_net"`
}

// Period bounds a statistics or export query. Nil bounds are open ended.
type Period struct {
	From *time.Time
	To   *time.Time
}

// ToEntryResponse converts a domain entry to its API representation
func ToEntryResponse(e *ledger.Entry) *EntryResponse {
	if e == nil {
		return nil
	}
	return &EntryResponse{
		ID:             e.ID,
		PropertyID:     e.PropertyID,
		OwnerID:        e.OwnerID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		EntryType:      e.EntryType.String(),
		Category:       e.Category.String(),
		Amount:         e.Amount,
		Reference:      e.Reference,
		RunningBalance: e.RunningBalance,
		ObligationID:   e.ObligationID,
		ExpenseID:      e.ExpenseID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToEntryResponses converts a slice of domain entries
func ToEntryResponses(entries []*ledger.Entry) []*EntryResponse {
	out := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out
}
