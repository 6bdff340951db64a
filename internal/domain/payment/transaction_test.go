package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T, kind Kind) *Transaction {
	t.Helper()
	tx, err := NewTransaction(uuid.New(), "TX123ABC", kind,
		decimal.NewFromInt(150000), "XOF", "intouch", uuid.New())
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	t.Run("creates a pending transaction", func(t *testing.T) {
		tx := newTestTransaction(t, KindRent)

		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.False(t, tx.IsTerminal())
		assert.Nil(t, tx.PaidAt)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(150000)))
	})

	t.Run("fails with empty provider transaction id", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), "", KindRent,
			decimal.NewFromInt(100), "XOF", "intouch", uuid.New())
		assert.Error(t, err)
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), "TX1", Kind("LOAN"),
			decimal.NewFromInt(100), "XOF", "intouch", uuid.New())
		assert.Error(t, err)
	})

	t.Run("fails with non-positive amount", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), "TX1", KindAdvance,
			decimal.Zero, "XOF", "intouch", uuid.New())
		assert.Error(t, err)
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), "TX1", KindAdvance,
			decimal.NewFromInt(100), "", "intouch", uuid.New())
		assert.Error(t, err)
	})
}

func TestTransactionTerminalTransitions(t *testing.T) {
	paidAt := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)

	t.Run("completion records the payment moment and raw body", func(t *testing.T) {
		tx := newTestTransaction(t, KindRent)

		err := tx.MarkCompleted(paidAt, `{"status":"SUCCES"}`)

		require.NoError(t, err)
		assert.Equal(t, TransactionStatusCompleted, tx.Status)
		assert.True(t, tx.IsTerminal())
		require.NotNil(t, tx.PaidAt)
		assert.True(t, paidAt.Equal(*tx.PaidAt))
		assert.Equal(t, `{"status":"SUCCES"}`, tx.RawNotification)
	})

	t.Run("failure is terminal without a payment moment", func(t *testing.T) {
		tx := newTestTransaction(t, KindRent)

		err := tx.MarkFailed(`{"status":"ECHEC"}`)

		require.NoError(t, err)
		assert.Equal(t, TransactionStatusFailed, tx.Status)
		assert.True(t, tx.IsTerminal())
		assert.Nil(t, tx.PaidAt)
	})

	t.Run("terminal transactions absorb further transitions", func(t *testing.T) {
		tx := newTestTransaction(t, KindRent)
		require.NoError(t, tx.MarkCompleted(paidAt, "first"))

		assert.Error(t, tx.MarkCompleted(paidAt, "second"))
		assert.Error(t, tx.MarkFailed("second"))
		assert.Equal(t, "first", tx.RawNotification)
	})
}

func TestTransactionLinks(t *testing.T) {
	t.Run("links obligation and customer snapshot", func(t *testing.T) {
		obligationID := uuid.New()
		tx := newTestTransaction(t, KindRent).
			WithObligation(obligationID).
			WithCustomer("Awa Diop", "770000000")

		require.NotNil(t, tx.ObligationID)
		assert.Equal(t, obligationID, *tx.ObligationID)
		assert.Equal(t, "Awa Diop", tx.CustomerName)
		assert.Equal(t, "770000000", tx.CustomerPhone)
	})

	t.Run("links the advance a completed payment produced", func(t *testing.T) {
		advanceID := uuid.New()
		tx := newTestTransaction(t, KindAdvance)

		tx.LinkAdvance(advanceID)

		require.NotNil(t, tx.AdvanceID)
		assert.Equal(t, advanceID, *tx.AdvanceID)
	})
}
