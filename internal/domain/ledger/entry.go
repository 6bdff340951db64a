package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryType represents the sign of a ledger entry
type EntryType string

const (
	// EntryTypeCredit represents money coming into the scope
	EntryTypeCredit EntryType = "CREDIT"
	// EntryTypeDebit represents money leaving the scope
	EntryTypeDebit EntryType = "DEBIT"
)

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// Category labels the business origin of a ledger entry
type Category string

const (
	CategoryRent     Category = "RENT"
	CategoryDeposit  Category = "DEPOSIT"
	CategoryFee      Category = "FEE"
	CategoryAdvance  Category = "ADVANCE"
	CategoryRefund   Category = "REFUND"
	CategoryTransfer Category = "TRANSFER"
	CategoryExpense  Category = "EXPENSE"
	CategoryOther    Category = "OTHER"
)

// IsValid returns true if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryRent, CategoryDeposit, CategoryFee, CategoryAdvance,
		CategoryRefund, CategoryTransfer, CategoryExpense, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Scope identifies the accounting book an entry belongs to: a property,
// an owner, or both. Entries in different scopes never share a running
// balance chain.
type Scope struct {
	PropertyID *uuid.UUID
	OwnerID    *uuid.UUID
}

// NewPropertyScope creates a scope for a single property
func NewPropertyScope(propertyID uuid.UUID) Scope {
	return Scope{PropertyID: &propertyID}
}

// NewOwnerScope creates a scope for a single owner
func NewOwnerScope(ownerID uuid.UUID) Scope {
	return Scope{OwnerID: &ownerID}
}

// IsEmpty returns true if the scope names neither a property nor an owner
func (s Scope) IsEmpty() bool {
	return s.PropertyID == nil && s.OwnerID == nil
}

// Entry is one signed, dated monetary record in the accounting log.
// RunningBalance is a derived cache over the ordered log, never a source of
// truth: it is nil until the first recalculation and is rewritten whenever
// any entry in the same scope is inserted, edited or removed.
type Entry struct {
	shared.TenantAggregateRoot
	PropertyID     *uuid.UUID
	OwnerID        *uuid.UUID
	EntryDate      time.Time
	Description    string
	EntryType      EntryType
	Category       Category
	Amount         decimal.Decimal
	Reference      string
	RunningBalance *decimal.Decimal
	ObligationID   *uuid.UUID
	ExpenseID      *uuid.UUID
}

// NewEntry creates a new ledger entry with a nil running balance
func NewEntry(
	tenantID uuid.UUID,
	scope Scope,
	entryDate time.Time,
	description string,
	entryType EntryType,
	category Category,
	amount decimal.Decimal,
	reference string,
) (*Entry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if scope.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Ledger scope must reference a property or an owner")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Entry date cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid ledger entry category")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	e := &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          scope.PropertyID,
		OwnerID:             scope.OwnerID,
		EntryDate:           entryDate,
		Description:         description,
		EntryType:           entryType,
		Category:            category,
		Amount:              amount.Round(2),
		Reference:           reference,
	}
	e.AddDomainEvent(NewEntryRecordedEvent(e))
	return e, nil
}

// WithObligationID links the entry to the obligation it settles
func (e *Entry) WithObligationID(obligationID uuid.UUID) *Entry {
	e.ObligationID = &obligationID
	return e
}

// WithExpenseID links the entry to the expense record it originates from
func (e *Entry) WithExpenseID(expenseID uuid.UUID) *Entry {
	e.ExpenseID = &expenseID
	return e
}

// Scope returns the scope of the entry
func (e *Entry) Scope() Scope {
	return Scope{PropertyID: e.PropertyID, OwnerID: e.OwnerID}
}

// SignedAmount returns the amount with sign: positive for credits,
// negative for debits
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.EntryType == EntryTypeDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// SetRunningBalance caches the derived running balance for the entry
func (e *Entry) SetRunningBalance(balance decimal.Decimal) {
	b := balance.Round(2)
	e.RunningBalance = &b
}

// ClearRunningBalance invalidates the cached balance
func (e *Entry) ClearRunningBalance() {
	e.RunningBalance = nil
}

// UpdateDetails edits the ordering-relevant fields of the entry.
// The caller must re-run the scope recalculation afterwards.
func (e *Entry) UpdateDetails(
	entryDate time.Time,
	description string,
	entryType EntryType,
	category Category,
	amount decimal.Decimal,
	reference string,
) error {
	if entryDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Entry date cannot be empty")
	}
	if !entryType.IsValid() {
		return shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid ledger entry category")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	e.EntryDate = entryDate
	e.Description = description
	e.EntryType = entryType
	e.Category = category
	e.Amount = amount.Round(2)
	e.Reference = reference
	e.ClearRunningBalance()
	e.UpdatedAt = time.Now()
	e.AddDomainEvent(NewEntryUpdatedEvent(e))
	return nil
}
