package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
)

// TransactionalRepositories exposes the repositories an advance lifecycle
// operation writes through, all bound to the same database transaction
type TransactionalRepositories interface {
	Advances() leasing.AdvancePaymentRepository
	Obligations() leasing.ObligationRepository
	LedgerEntries() ledger.EntryRepository
}

// TransactionScope runs a function inside a single database transaction.
// If fn returns an error the whole unit rolls back; otherwise it commits.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// BalanceRecalculator refreshes the running-balance cache of a ledger scope
// after an advance operation commits
type BalanceRecalculator interface {
	RecalculateRunningBalances(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) error
}
