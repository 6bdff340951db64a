package persistence

import (
	"context"

	leasingapp "github.com/rentfolio/backend/internal/application/leasing"
	"github.com/rentfolio/backend/internal/application/payment"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	domainpayment "github.com/rentfolio/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormTransactionScope implements payment.TransactionScope by running the
// callback inside one gorm transaction and handing it repositories bound to
// that transaction's connection.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a single database transaction. Any error from fn
// rolls the whole unit back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos payment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionalRepositories{tx: tx})
	})
}

// transactionalRepositories binds every repository to one shared transaction
type transactionalRepositories struct {
	tx *gorm.DB
}

func (r *transactionalRepositories) Transactions() domainpayment.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *transactionalRepositories) Obligations() leasing.ObligationRepository {
	return NewGormObligationRepository(r.tx)
}

func (r *transactionalRepositories) Advances() leasing.AdvancePaymentRepository {
	return NewGormAdvancePaymentRepository(r.tx)
}

func (r *transactionalRepositories) Leases() leasing.LeaseRepository {
	return NewGormLeaseRepository(r.tx)
}

func (r *transactionalRepositories) LedgerEntries() ledger.EntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// GormLeasingScope implements the leasing application's TransactionScope.
// It reuses the same transaction-bound repository bundle; the leasing side
// just sees the narrower slice it asks for.
type GormLeasingScope struct {
	db *gorm.DB
}

// NewGormLeasingScope creates a new GormLeasingScope
func NewGormLeasingScope(db *gorm.DB) *GormLeasingScope {
	return &GormLeasingScope{db: db}
}

// Execute runs fn inside a single database transaction. Any error from fn
// rolls the whole unit back.
func (s *GormLeasingScope) Execute(ctx context.Context, fn func(repos leasingapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionalRepositories{tx: tx})
	})
}

var _ payment.TransactionScope = (*GormTransactionScope)(nil)
var _ leasingapp.TransactionScope = (*GormLeasingScope)(nil)
