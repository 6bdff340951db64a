package leasing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Mocks
// ============================================================================

// MockAdvancePaymentRepository is a mock implementation of leasing.AdvancePaymentRepository
type MockAdvancePaymentRepository struct {
	mock.Mock
}

func (m *MockAdvancePaymentRepository) Create(ctx context.Context, advance *leasing.AdvancePayment) error {
	args := m.Called(ctx, advance)
	return args.Error(0)
}

func (m *MockAdvancePaymentRepository) Save(ctx context.Context, advance *leasing.AdvancePayment) error {
	args := m.Called(ctx, advance)
	return args.Error(0)
}

func (m *MockAdvancePaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leasing.AdvancePayment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.AdvancePayment), args.Error(1)
}

func (m *MockAdvancePaymentRepository) FindAllocatableByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*leasing.AdvancePayment, error) {
	args := m.Called(ctx, tenantID, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leasing.AdvancePayment), args.Error(1)
}

func (m *MockAdvancePaymentRepository) List(ctx context.Context, tenantID uuid.UUID, filter leasing.AdvancePaymentFilter) ([]*leasing.AdvancePayment, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*leasing.AdvancePayment), args.Get(1).(int64), args.Error(2)
}

// MockObligationRepository is a mock implementation of leasing.ObligationRepository
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) Create(ctx context.Context, obligation *leasing.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) Save(ctx context.Context, obligation *leasing.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leasing.Obligation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByScheduleKey(ctx context.Context, tenantID, leaseID uuid.UUID, dueDate time.Time, obligationType leasing.ObligationType) (*leasing.Obligation, error) {
	args := m.Called(ctx, tenantID, leaseID, dueDate, obligationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindPendingByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*leasing.Obligation, error) {
	args := m.Called(ctx, tenantID, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leasing.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*leasing.Obligation, error) {
	args := m.Called(ctx, tenantID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*leasing.Obligation), args.Error(1)
}

func (m *MockObligationRepository) List(ctx context.Context, tenantID uuid.UUID, filter leasing.ObligationFilter) ([]*leasing.Obligation, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*leasing.Obligation), args.Get(1).(int64), args.Error(2)
}

// MockLeaseRepository is a mock implementation of leasing.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of ledger.EntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByScopeOrdered(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) ([]*ledger.Entry, error) {
	args := m.Called(ctx, tenantID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerEntryRepository) UpdateRunningBalances(ctx context.Context, tenantID uuid.UUID, balances map[uuid.UUID]decimal.Decimal) error {
	args := m.Called(ctx, tenantID, balances)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) SumByType(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope, entryType ledger.EntryType, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, scope, entryType, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBalanceRecalculator is a mock implementation of BalanceRecalculator
type MockBalanceRecalculator struct {
	mock.Mock
}

func (m *MockBalanceRecalculator) RecalculateRunningBalances(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) error {
	args := m.Called(ctx, tenantID, scope)
	return args.Error(0)
}

// fakeLeasingScope hands the callback the fixture's mocks and counts how
// each unit ended, standing in for commit and rollback.
type fakeLeasingScope struct {
	repos     *fakeLeasingRepositories
	commits   int
	rollbacks int
}

func (s *fakeLeasingScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	if err := fn(s.repos); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

type fakeLeasingRepositories struct {
	advances    *MockAdvancePaymentRepository
	obligations *MockObligationRepository
	entries     *MockLedgerEntryRepository
}

func (r *fakeLeasingRepositories) Advances() leasing.AdvancePaymentRepository { return r.advances }
func (r *fakeLeasingRepositories) Obligations() leasing.ObligationRepository  { return r.obligations }
func (r *fakeLeasingRepositories) LedgerEntries() ledger.EntryRepository      { return r.entries }

// ============================================================================
// Helpers
// ============================================================================

type advanceServiceFixture struct {
	advanceRepo    *MockAdvancePaymentRepository
	obligationRepo *MockObligationRepository
	leaseRepo      *MockLeaseRepository
	entryRepo      *MockLedgerEntryRepository
	scope          *fakeLeasingScope
	recalculator   *MockBalanceRecalculator
	service        *AdvancePaymentService
	tenantID       uuid.UUID
}

func newAdvanceServiceFixture(minAmount decimal.Decimal) *advanceServiceFixture {
	f := &advanceServiceFixture{
		advanceRepo:    new(MockAdvancePaymentRepository),
		obligationRepo: new(MockObligationRepository),
		leaseRepo:      new(MockLeaseRepository),
		entryRepo:      new(MockLedgerEntryRepository),
		recalculator:   new(MockBalanceRecalculator),
		tenantID:       uuid.New(),
	}
	f.scope = &fakeLeasingScope{repos: &fakeLeasingRepositories{
		advances:    f.advanceRepo,
		obligations: f.obligationRepo,
		entries:     f.entryRepo,
	}}
	logger, _ := zap.NewDevelopment()
	f.service = NewAdvancePaymentService(
		f.advanceRepo, f.obligationRepo, f.leaseRepo, f.scope, f.recalculator, nil, logger, minAmount)
	return f
}

func (f *advanceServiceFixture) lease() *leasing.Lease {
	return &leasing.Lease{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(f.tenantID),
		PropertyID:          uuid.New(),
		OwnerID:             uuid.New(),
		RenterID:            uuid.New(),
		Reference:           "LSE-2026-001",
		StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *advanceServiceFixture) advance(t *testing.T, leaseID uuid.UUID, amount int64, paidDay int) *leasing.AdvancePayment {
	t.Helper()
	advance, err := leasing.NewAdvancePayment(f.tenantID, leaseID, decimal.NewFromInt(amount),
		time.Date(2026, 1, paidDay, 0, 0, 0, 0, time.UTC), leasing.PaymentMethodMobileMoney, "", "")
	require.NoError(t, err)
	advance.ID = uuid.New()
	advance.ClearDomainEvents()
	return advance
}

func (f *advanceServiceFixture) obligation(t *testing.T, leaseID uuid.UUID, amount int64, dueDay int) *leasing.Obligation {
	t.Helper()
	obligation, err := leasing.NewObligation(f.tenantID, leaseID,
		time.Date(2026, 2, dueDay, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(amount),
		leasing.ObligationTypeRent, "")
	require.NoError(t, err)
	obligation.ID = uuid.New()
	obligation.ClearDomainEvents()
	return obligation
}

func (f *advanceServiceFixture) expectBalanceRefresh() {
	f.recalculator.On("RecalculateRunningBalances", mock.Anything, f.tenantID,
		mock.AnythingOfType("ledger.Scope")).Return(nil)
}

// ============================================================================
// CreateAdvancePayment
// ============================================================================

func TestAdvancePaymentService_CreateAdvancePayment_RecordsLedgerCredit(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	lease := f.lease()
	lease.ID = uuid.New()

	f.leaseRepo.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.advanceRepo.On("Create", ctx, mock.AnythingOfType("*leasing.AdvancePayment")).Return(nil)
	f.entryRepo.On("Create", ctx, mock.MatchedBy(func(entry *ledger.Entry) bool {
		return entry.EntryType == ledger.EntryTypeCredit &&
			entry.Category == ledger.CategoryAdvance &&
			entry.Amount.Equal(decimal.NewFromInt(50000)) &&
			entry.PropertyID != nil && *entry.PropertyID == lease.PropertyID
	})).Return(nil)
	f.expectBalanceRefresh()

	resp, err := f.service.CreateAdvancePayment(ctx, f.tenantID, CreateAdvancePaymentRequest{
		LeaseID:  lease.ID,
		Amount:   decimal.NewFromInt(50000),
		PaidDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Method:   "MOBILE_MONEY",
	})

	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", resp.Status)
	assert.True(t, resp.RemainingBalance.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 1, f.scope.commits)
	f.entryRepo.AssertExpectations(t)
	f.advanceRepo.AssertExpectations(t)
	f.recalculator.AssertExpectations(t)
}

func TestAdvancePaymentService_CreateAdvancePayment_BelowMinimum(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.NewFromInt(1000))

	_, err := f.service.CreateAdvancePayment(context.Background(), f.tenantID, CreateAdvancePaymentRequest{
		LeaseID:  uuid.New(),
		Amount:   decimal.NewFromInt(500),
		PaidDate: time.Now(),
		Method:   "CASH",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum")
	f.leaseRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvancePaymentService_CreateAdvancePayment_UnknownLease(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	leaseID := uuid.New()

	f.leaseRepo.On("FindByID", ctx, f.tenantID, leaseID).Return(nil, shared.ErrNotFound)

	_, err := f.service.CreateAdvancePayment(ctx, f.tenantID, CreateAdvancePaymentRequest{
		LeaseID:  leaseID,
		Amount:   decimal.NewFromInt(100),
		PaidDate: time.Now(),
		Method:   "CASH",
	})

	assert.Error(t, err)
	assert.Equal(t, 0, f.scope.commits)
	f.advanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdvancePaymentService_CreateAdvancePayment_LedgerWriteFailureRollsBack(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	lease := f.lease()
	lease.ID = uuid.New()

	f.leaseRepo.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.advanceRepo.On("Create", ctx, mock.AnythingOfType("*leasing.AdvancePayment")).Return(nil)
	f.entryRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Entry")).
		Return(errors.New("connection reset"))

	_, err := f.service.CreateAdvancePayment(ctx, f.tenantID, CreateAdvancePaymentRequest{
		LeaseID:  lease.ID,
		Amount:   decimal.NewFromInt(50000),
		PaidDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Method:   "MOBILE_MONEY",
	})

	require.Error(t, err)
	assert.Equal(t, 0, f.scope.commits)
	assert.Equal(t, 1, f.scope.rollbacks)
	f.recalculator.AssertNotCalled(t, "RecalculateRunningBalances", mock.Anything, mock.Anything, mock.Anything)
}

// ============================================================================
// ApplyAdvancesToPendingObligations
// ============================================================================

func TestAdvancePaymentService_ApplyAdvances_SweepsOldestFirst(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	leaseID := uuid.New()

	older := f.advance(t, leaseID, 300, 1)
	newer := f.advance(t, leaseID, 300, 15)
	first := f.obligation(t, leaseID, 400, 1)
	second := f.obligation(t, leaseID, 400, 15)

	f.advanceRepo.On("FindAllocatableByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.AdvancePayment{older, newer}, nil)
	f.obligationRepo.On("FindPendingByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.Obligation{first, second}, nil)
	f.advanceRepo.On("Save", ctx, older).Return(nil)
	f.advanceRepo.On("Save", ctx, newer).Return(nil)
	f.obligationRepo.On("Save", ctx, first).Return(nil)
	f.obligationRepo.On("Save", ctx, second).Return(nil)

	summary, err := f.service.ApplyAdvancesToPendingObligations(ctx, f.tenantID, leaseID)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.ObligationsProcessed)
	assert.Equal(t, 1, summary.ObligationsPaid)
	assert.True(t, summary.TotalConsumed.Equal(decimal.NewFromInt(600)))
	assert.True(t, first.IsPaid())
	assert.Equal(t, leasing.ObligationStatusPartial, second.Status)
	assert.Equal(t, 1, f.scope.commits)
	f.advanceRepo.AssertExpectations(t)
	f.obligationRepo.AssertExpectations(t)
}

func TestAdvancePaymentService_ApplyAdvances_NothingToAllocate(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	leaseID := uuid.New()

	f.advanceRepo.On("FindAllocatableByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.AdvancePayment{}, nil)
	f.obligationRepo.On("FindPendingByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.Obligation{f.obligation(t, leaseID, 400, 1)}, nil)

	summary, err := f.service.ApplyAdvancesToPendingObligations(ctx, f.tenantID, leaseID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.ObligationsProcessed)
	assert.True(t, summary.TotalConsumed.IsZero())
	f.advanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.obligationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAdvancePaymentService_ApplyAdvances_FailedObligationSaveAbortsSweep(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	leaseID := uuid.New()

	advance := f.advance(t, leaseID, 300, 1)
	obligation := f.obligation(t, leaseID, 400, 1)

	f.advanceRepo.On("FindAllocatableByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.AdvancePayment{advance}, nil)
	f.obligationRepo.On("FindPendingByLease", ctx, f.tenantID, leaseID).
		Return([]*leasing.Obligation{obligation}, nil)
	f.advanceRepo.On("Save", ctx, advance).Return(nil)
	f.obligationRepo.On("Save", ctx, obligation).Return(errors.New("deadlock detected"))

	_, err := f.service.ApplyAdvancesToPendingObligations(ctx, f.tenantID, leaseID)

	// The advance save and the obligation save share one transaction, so a
	// failed obligation write takes the consumed advance down with it.
	require.Error(t, err)
	assert.Equal(t, 0, f.scope.commits)
	assert.Equal(t, 1, f.scope.rollbacks)
}

// ============================================================================
// RefundAdvancePayment
// ============================================================================

func TestAdvancePaymentService_RefundAdvancePayment_RecordsLedgerDebit(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	lease := f.lease()
	lease.ID = uuid.New()
	advance := f.advance(t, lease.ID, 800, 1)

	f.advanceRepo.On("FindByID", ctx, f.tenantID, advance.ID).Return(advance, nil)
	f.leaseRepo.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.advanceRepo.On("Save", ctx, advance).Return(nil)
	f.entryRepo.On("Create", ctx, mock.MatchedBy(func(entry *ledger.Entry) bool {
		return entry.EntryType == ledger.EntryTypeDebit &&
			entry.Category == ledger.CategoryRefund &&
			entry.Amount.Equal(decimal.NewFromInt(800))
	})).Return(nil)
	f.expectBalanceRefresh()

	result, err := f.service.RefundAdvancePayment(ctx, f.tenantID, advance.ID, RefundAdvanceRequest{Reason: "lease ended"})

	require.NoError(t, err)
	assert.True(t, result.RefundedAmount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "REFUNDED", result.Advance.Status)
	assert.Equal(t, 1, f.scope.commits)
	f.entryRepo.AssertExpectations(t)
	f.recalculator.AssertExpectations(t)
}

func TestAdvancePaymentService_RefundAdvancePayment_AlreadyRefunded(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	lease := f.lease()
	lease.ID = uuid.New()
	advance := f.advance(t, lease.ID, 800, 1)
	_, err := advance.Refund("first")
	require.NoError(t, err)

	f.advanceRepo.On("FindByID", ctx, f.tenantID, advance.ID).Return(advance, nil)
	f.leaseRepo.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)

	_, err = f.service.RefundAdvancePayment(ctx, f.tenantID, advance.ID, RefundAdvanceRequest{Reason: "again"})

	assert.Error(t, err)
	assert.Equal(t, 0, f.scope.commits)
	f.advanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.entryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// TransferAdvance
// ============================================================================

func TestAdvancePaymentService_TransferAdvance_MovesBalanceAndSweepsTarget(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	sourceLeaseID := uuid.New()
	targetLease := f.lease()
	targetLease.ID = uuid.New()
	advance := f.advance(t, sourceLeaseID, 600, 1)

	f.advanceRepo.On("FindByID", ctx, f.tenantID, advance.ID).Return(advance, nil)
	f.leaseRepo.On("FindByID", ctx, f.tenantID, targetLease.ID).Return(targetLease, nil)
	f.advanceRepo.On("Save", ctx, advance).Return(nil)
	f.advanceRepo.On("Create", ctx, mock.MatchedBy(func(created *leasing.AdvancePayment) bool {
		return created.LeaseID == targetLease.ID &&
			created.Amount.Equal(decimal.NewFromInt(600)) &&
			created.TransferredFrom != nil && *created.TransferredFrom == advance.ID
	})).Return(nil)
	// Post-transfer sweep over the target lease.
	f.advanceRepo.On("FindAllocatableByLease", ctx, f.tenantID, targetLease.ID).
		Return([]*leasing.AdvancePayment{}, nil)
	f.obligationRepo.On("FindPendingByLease", ctx, f.tenantID, targetLease.ID).
		Return([]*leasing.Obligation{}, nil)

	resp, err := f.service.TransferAdvance(ctx, f.tenantID, advance.ID, TransferAdvanceRequest{
		TargetLeaseID: targetLease.ID,
		Reason:        "renter moved",
	})

	require.NoError(t, err)
	assert.Equal(t, targetLease.ID, resp.LeaseID)
	assert.True(t, resp.RemainingBalance.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, leasing.AdvanceStatusExhausted, advance.Status)
	// The transfer and the follow-up sweep each run in their own transaction.
	assert.Equal(t, 2, f.scope.commits)
	f.advanceRepo.AssertExpectations(t)
	// A transfer moves money between leases without changing the books.
	f.entryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdvancePaymentService_TransferAdvance_SameLease(t *testing.T) {
	f := newAdvanceServiceFixture(decimal.Zero)
	ctx := context.Background()
	leaseID := uuid.New()
	advance := f.advance(t, leaseID, 600, 1)

	f.advanceRepo.On("FindByID", ctx, f.tenantID, advance.ID).Return(advance, nil)

	_, err := f.service.TransferAdvance(ctx, f.tenantID, advance.ID, TransferAdvanceRequest{
		TargetLeaseID: leaseID,
		Reason:        "loop",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "own lease")
	assert.Equal(t, 0, f.scope.commits)
	f.advanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
