package payment

import (
	"context"

	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/payment"
)

// TransactionalRepositories exposes every repository the webhook effect
// needs, all bound to the same database transaction
type TransactionalRepositories interface {
	Transactions() payment.TransactionRepository
	Obligations() leasing.ObligationRepository
	Advances() leasing.AdvancePaymentRepository
	Leases() leasing.LeaseRepository
	LedgerEntries() ledger.EntryRepository
}

// TransactionScope runs a function inside a single database transaction.
// If fn returns an error the whole unit rolls back; otherwise it commits.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
