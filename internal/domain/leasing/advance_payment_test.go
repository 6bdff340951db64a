package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdvance(t *testing.T, amount int64) *AdvancePayment {
	t.Helper()
	advance, err := NewAdvancePayment(uuid.New(), uuid.New(), decimal.NewFromInt(amount),
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), PaymentMethodMobileMoney, "ADV-1", "")
	require.NoError(t, err)
	return advance
}

func TestNewAdvancePayment(t *testing.T) {
	t.Run("opens with full balance available", func(t *testing.T) {
		advance := newTestAdvance(t, 1000)

		assert.Equal(t, AdvanceStatusAvailable, advance.Status)
		assert.True(t, advance.RemainingBalance.Equal(advance.Amount))
		assert.True(t, advance.CanAllocate())
		assert.Len(t, advance.GetDomainEvents(), 1)
	})

	t.Run("fails with zero amount", func(t *testing.T) {
		_, err := NewAdvancePayment(uuid.New(), uuid.New(), decimal.Zero,
			time.Now(), PaymentMethodCash, "", "")
		assert.Error(t, err)
	})

	t.Run("fails with invalid method", func(t *testing.T) {
		_, err := NewAdvancePayment(uuid.New(), uuid.New(), decimal.NewFromInt(10),
			time.Now(), PaymentMethod("CRYPTO"), "", "")
		assert.Error(t, err)
	})
}

func TestAdvancePaymentConsume(t *testing.T) {
	t.Run("partial consumption keeps advance spendable", func(t *testing.T) {
		advance := newTestAdvance(t, 1000)

		consumed, err := advance.Consume(decimal.NewFromInt(300))

		require.NoError(t, err)
		assert.True(t, consumed.Equal(decimal.NewFromInt(300)))
		assert.True(t, advance.RemainingBalance.Equal(decimal.NewFromInt(700)))
		assert.Equal(t, AdvanceStatusPartiallyUsed, advance.Status)
		assert.True(t, advance.CanAllocate())
	})

	t.Run("consumption is capped at remaining balance", func(t *testing.T) {
		advance := newTestAdvance(t, 200)

		consumed, err := advance.Consume(decimal.NewFromInt(999))

		require.NoError(t, err)
		assert.True(t, consumed.Equal(decimal.NewFromInt(200)))
		assert.True(t, advance.RemainingBalance.IsZero())
		assert.Equal(t, AdvanceStatusExhausted, advance.Status)
		assert.False(t, advance.CanAllocate())
	})

	t.Run("exhausted advance rejects consumption", func(t *testing.T) {
		advance := newTestAdvance(t, 100)
		_, err := advance.Consume(decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = advance.Consume(decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestAdvancePaymentRefund(t *testing.T) {
	t.Run("refunds remaining balance and forecloses allocation", func(t *testing.T) {
		advance := newTestAdvance(t, 1000)
		_, err := advance.Consume(decimal.NewFromInt(400))
		require.NoError(t, err)

		refunded, err := advance.Refund("lease terminated")

		require.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(600)))
		assert.True(t, advance.RemainingBalance.IsZero())
		assert.Equal(t, AdvanceStatusRefunded, advance.Status)
		assert.NotNil(t, advance.RefundedAt)
		assert.Equal(t, "lease terminated", advance.RefundReason)
		assert.False(t, advance.CanAllocate())
	})

	t.Run("double refund is rejected", func(t *testing.T) {
		advance := newTestAdvance(t, 100)
		_, err := advance.Refund("first")
		require.NoError(t, err)

		_, err = advance.Refund("second")
		assert.Error(t, err)
	})

	t.Run("exhausted advance cannot be refunded", func(t *testing.T) {
		advance := newTestAdvance(t, 100)
		_, err := advance.Consume(decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = advance.Refund("nothing left")
		assert.Error(t, err)
	})
}

func TestAdvancePaymentTransferTo(t *testing.T) {
	t.Run("moves remaining balance to a new advance on the target lease", func(t *testing.T) {
		advance := newTestAdvance(t, 1000)
		_, err := advance.Consume(decimal.NewFromInt(250))
		require.NoError(t, err)
		targetLeaseID := uuid.New()

		target, err := advance.TransferTo(targetLeaseID, "renter moved")

		require.NoError(t, err)
		assert.Equal(t, targetLeaseID, target.LeaseID)
		assert.True(t, target.Amount.Equal(decimal.NewFromInt(750)))
		assert.True(t, target.RemainingBalance.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, AdvanceStatusAvailable, target.Status)
		require.NotNil(t, target.TransferredFrom)
		assert.Equal(t, advance.ID, *target.TransferredFrom)

		assert.Equal(t, AdvanceStatusExhausted, advance.Status)
		assert.True(t, advance.RemainingBalance.IsZero())
		require.NotNil(t, advance.TransferredToID)
		assert.Equal(t, target.ID, *advance.TransferredToID)
		assert.Equal(t, "renter moved", advance.TransferReason)
	})

	t.Run("rejects transfer onto the same lease", func(t *testing.T) {
		advance := newTestAdvance(t, 100)
		_, err := advance.TransferTo(advance.LeaseID, "loop")
		assert.Error(t, err)
	})

	t.Run("rejects transfer of a refunded advance", func(t *testing.T) {
		advance := newTestAdvance(t, 100)
		_, err := advance.Refund("gone")
		require.NoError(t, err)

		_, err = advance.TransferTo(uuid.New(), "too late")
		assert.Error(t, err)
	})
}
