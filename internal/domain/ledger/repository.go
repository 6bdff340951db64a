package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryFilter defines filtering options for ledger entry queries
type EntryFilter struct {
	shared.Filter
	Scope    Scope
	Type     *EntryType
	Category *Category
	DateFrom *time.Time
	DateTo   *time.Time
}

// EntryRepository defines the interface for ledger entry persistence.
//
// Implementations must order scope listings by (entry_date ASC, created_at
// ASC, id ASC); the trailing columns break date ties deterministically so
// that running-balance recalculation is idempotent.
type EntryRepository interface {
	// Create appends a new ledger entry
	Create(ctx context.Context, entry *Entry) error

	// Save updates an existing ledger entry
	Save(ctx context.Context, entry *Entry) error

	// Delete removes a ledger entry for a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// FindByID finds a ledger entry by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)

	// FindByScopeOrdered returns every entry in the scope in recalculation
	// order. An empty scope returns all entries of the tenant, grouped by
	// scope columns and then ordered within each group.
	FindByScopeOrdered(ctx context.Context, tenantID uuid.UUID, scope Scope) ([]*Entry, error)

	// List returns entries matching the filter, newest first, with total count
	List(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]*Entry, int64, error)

	// UpdateRunningBalances writes the cached running balance of each entry
	// in a single batch. Only the running_balance column is touched.
	UpdateRunningBalances(ctx context.Context, tenantID uuid.UUID, balances map[uuid.UUID]decimal.Decimal) error

	// SumByType returns the total amount of entries of the given type in the
	// scope, optionally restricted to a date range
	SumByType(ctx context.Context, tenantID uuid.UUID, scope Scope, entryType EntryType, from, to *time.Time) (decimal.Decimal, error)
}
