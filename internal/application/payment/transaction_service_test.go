package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type transactionServiceFixture struct {
	transactions *MockTransactionRepository
	obligations  *MockObligationRepository
	leases       *MockLeaseRepository
	service      *TransactionService
	tenantID     uuid.UUID
}

func newTransactionServiceFixture() *transactionServiceFixture {
	f := &transactionServiceFixture{
		transactions: new(MockTransactionRepository),
		obligations:  new(MockObligationRepository),
		leases:       new(MockLeaseRepository),
		tenantID:     uuid.New(),
	}
	logger, _ := zap.NewDevelopment()
	f.service = NewTransactionService(
		f.transactions, f.obligations, f.leases, "intouch", "XOF", decimal.Zero, logger)
	return f
}

func (f *transactionServiceFixture) withMinAdvance(min decimal.Decimal) *transactionServiceFixture {
	logger, _ := zap.NewDevelopment()
	f.service = NewTransactionService(
		f.transactions, f.obligations, f.leases, "intouch", "XOF", min, logger)
	return f
}

func (f *transactionServiceFixture) lease() *leasing.Lease {
	lease := &leasing.Lease{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(f.tenantID),
		PropertyID:          uuid.New(),
		OwnerID:             uuid.New(),
		RenterID:            uuid.New(),
		Reference:           "LSE-2026-004",
		StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	lease.ID = uuid.New()
	return lease
}

func TestTransactionService_InitiatePayment_Advance(t *testing.T) {
	f := newTransactionServiceFixture()
	ctx := context.Background()
	lease := f.lease()

	f.leases.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.transactions.On("Create", ctx, mock.AnythingOfType("*payment.Transaction")).Return(nil)

	resp, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID:       lease.ID,
		Kind:          "ADVANCE",
		Amount:        decimal.NewFromInt(200000),
		CustomerName:  "Awa Diop",
		CustomerPhone: "770000000",
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "XOF", resp.Currency)
	assert.Equal(t, "intouch", resp.Provider)
	// The id the provider echoes back: 32 uppercase hex chars, no dashes.
	assert.Len(t, resp.ProviderTransactionID, 32)
	assert.NotContains(t, resp.ProviderTransactionID, "-")
	f.transactions.AssertExpectations(t)
}

func TestTransactionService_InitiatePayment_AdvanceBelowMinimum(t *testing.T) {
	f := newTransactionServiceFixture().withMinAdvance(decimal.NewFromInt(5000))
	ctx := context.Background()
	lease := f.lease()

	f.leases.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)

	_, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID: lease.ID,
		Kind:    "ADVANCE",
		Amount:  decimal.NewFromInt(4999),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "AMOUNT_BELOW_MINIMUM", domainErr.Code)
	f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// The exact floor is still allowed through.
	f.transactions.On("Create", ctx, mock.AnythingOfType("*payment.Transaction")).Return(nil)
	resp, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID: lease.ID,
		Kind:    "ADVANCE",
		Amount:  decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
}

func TestTransactionService_InitiatePayment_RentRequiresObligation(t *testing.T) {
	f := newTransactionServiceFixture()
	ctx := context.Background()
	lease := f.lease()

	f.leases.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)

	_, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID: lease.ID,
		Kind:    "RENT",
		Amount:  decimal.NewFromInt(150000),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "obligation")
	f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransactionService_InitiatePayment_ObligationNotPayable(t *testing.T) {
	f := newTransactionServiceFixture()
	ctx := context.Background()
	lease := f.lease()

	obligation, err := leasing.NewObligation(f.tenantID, lease.ID,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(150000),
		leasing.ObligationTypeRent, "")
	require.NoError(t, err)
	obligation.ID = uuid.New()
	_, err = obligation.ApplyPayment(decimal.NewFromInt(150000), time.Now(), leasing.PaymentMethodCash)
	require.NoError(t, err)

	f.leases.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.obligations.On("FindByID", ctx, f.tenantID, obligation.ID).Return(obligation, nil)

	_, err = f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID:      lease.ID,
		Kind:         "RENT",
		Amount:       decimal.NewFromInt(150000),
		ObligationID: &obligation.ID,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no longer receive")
	f.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransactionService_InitiatePayment_ExplicitCurrencyWins(t *testing.T) {
	f := newTransactionServiceFixture()
	ctx := context.Background()
	lease := f.lease()

	f.leases.On("FindByID", ctx, f.tenantID, lease.ID).Return(lease, nil)
	f.transactions.On("Create", ctx, mock.AnythingOfType("*payment.Transaction")).Return(nil)

	resp, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID:  lease.ID,
		Kind:     "ADVANCE",
		Amount:   decimal.NewFromInt(100),
		Currency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Currency)
}

func TestTransactionService_InitiatePayment_UnknownLease(t *testing.T) {
	f := newTransactionServiceFixture()
	ctx := context.Background()
	leaseID := uuid.New()

	f.leases.On("FindByID", ctx, f.tenantID, leaseID).Return(nil, shared.ErrNotFound)

	_, err := f.service.InitiatePayment(ctx, f.tenantID, InitiatePaymentRequest{
		LeaseID: leaseID,
		Kind:    "ADVANCE",
		Amount:  decimal.NewFromInt(100),
	})

	assert.Error(t, err)
}
