package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObligation(t *testing.T) {
	tenantID := uuid.New()
	leaseID := uuid.New()
	dueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates pending obligation", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(750), ObligationTypeRent, "APR-2026")

		require.NoError(t, err)
		assert.Equal(t, ObligationStatusPending, obligation.Status)
		assert.True(t, obligation.PaidAmount.IsZero())
		assert.True(t, obligation.Outstanding().Equal(decimal.NewFromInt(750)))
		assert.Nil(t, obligation.PaidDate)
	})

	t.Run("fails with zero amount", func(t *testing.T) {
		_, err := NewObligation(tenantID, leaseID, dueDate, decimal.Zero, ObligationTypeRent, "")
		assert.Error(t, err)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		_, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationType("UTILITY"), "")
		assert.Error(t, err)
	})

	t.Run("fails with nil lease", func(t *testing.T) {
		_, err := NewObligation(tenantID, uuid.Nil, dueDate, decimal.NewFromInt(100), ObligationTypeRent, "")
		assert.Error(t, err)
	})
}

func TestObligationApplyPayment(t *testing.T) {
	tenantID := uuid.New()
	leaseID := uuid.New()
	dueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	paidAt := dueDate.AddDate(0, 0, -2)

	t.Run("full payment flips to PAID with paid date", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(750), ObligationTypeRent, "")
		require.NoError(t, err)

		applied, err := obligation.ApplyPayment(decimal.NewFromInt(750), paidAt, PaymentMethodOnline)

		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, ObligationStatusPaid, obligation.Status)
		require.NotNil(t, obligation.PaidDate)
		assert.Equal(t, paidAt, *obligation.PaidDate)
		require.NotNil(t, obligation.Method)
		assert.Equal(t, PaymentMethodOnline, *obligation.Method)
	})

	t.Run("partial payment leaves obligation open", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(750), ObligationTypeRent, "")
		require.NoError(t, err)

		applied, err := obligation.ApplyPayment(decimal.NewFromInt(300), paidAt, PaymentMethodCash)

		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, ObligationStatusPartial, obligation.Status)
		assert.True(t, obligation.Outstanding().Equal(decimal.NewFromInt(450)))
		assert.Nil(t, obligation.PaidDate)
	})

	t.Run("overpayment is capped at the outstanding amount", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(500), ObligationTypeDeposit, "")
		require.NoError(t, err)

		applied, err := obligation.ApplyPayment(decimal.NewFromInt(900), paidAt, PaymentMethodBankTransfer)

		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, ObligationStatusPaid, obligation.Status)
	})

	t.Run("paid obligation rejects further payments", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationTypeFee, "")
		require.NoError(t, err)
		_, err = obligation.ApplyPayment(decimal.NewFromInt(100), paidAt, PaymentMethodCash)
		require.NoError(t, err)

		_, err = obligation.ApplyPayment(decimal.NewFromInt(10), paidAt, PaymentMethodCash)
		assert.Error(t, err)
	})

	t.Run("overdue obligation still receives payments", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationTypeRent, "")
		require.NoError(t, err)
		require.NoError(t, obligation.MarkOverdue(dueDate.AddDate(0, 0, 5)))

		_, err = obligation.ApplyPayment(decimal.NewFromInt(100), paidAt, PaymentMethodCash)
		require.NoError(t, err)
		assert.Equal(t, ObligationStatusPaid, obligation.Status)
	})
}

func TestObligationMarkOverdue(t *testing.T) {
	tenantID := uuid.New()
	leaseID := uuid.New()
	dueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("marks past-due obligation", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationTypeRent, "")
		require.NoError(t, err)

		err = obligation.MarkOverdue(dueDate.AddDate(0, 0, 1))

		require.NoError(t, err)
		assert.Equal(t, ObligationStatusOverdue, obligation.Status)
	})

	t.Run("rejects when due date has not passed", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationTypeRent, "")
		require.NoError(t, err)

		assert.Error(t, obligation.MarkOverdue(dueDate))
	})

	t.Run("rejects paid obligations", func(t *testing.T) {
		obligation, err := NewObligation(tenantID, leaseID, dueDate, decimal.NewFromInt(100), ObligationTypeRent, "")
		require.NoError(t, err)
		_, err = obligation.ApplyPayment(decimal.NewFromInt(100), dueDate, PaymentMethodCash)
		require.NoError(t, err)

		assert.Error(t, obligation.MarkOverdue(dueDate.AddDate(0, 0, 10)))
	})
}
