package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.LedgerEntryModel{})
	require.NoError(t, err)

	return db
}

func newTestEntry(t *testing.T, tenantID uuid.UUID, scope ledger.Scope, date time.Time, amount string, entryType ledger.EntryType) *ledger.Entry {
	t.Helper()
	entry, err := ledger.NewEntry(tenantID, scope, date, "test entry", entryType, ledger.CategoryRent, decimal.RequireFromString(amount), "REF-001")
	require.NoError(t, err)
	return entry
}

func TestGormLedgerEntryRepository_CreateAndFindByID(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	t.Run("creates and reads back an entry", func(t *testing.T) {
		entry := newTestEntry(t, tenantID, scope, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "500.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, entry))

		found, err := repo.FindByID(ctx, tenantID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, found.ID)
		assert.True(t, found.Amount.Equal(decimal.RequireFromString("500.00")))
		assert.Equal(t, ledger.EntryTypeCredit, found.EntryType)
		assert.Nil(t, found.RunningBalance)
	})

	t.Run("returns not found for another tenant", func(t *testing.T) {
		entry := newTestEntry(t, tenantID, scope, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "100.00", ledger.EntryTypeDebit)
		require.NoError(t, repo.Create(ctx, entry))

		_, err := repo.FindByID(ctx, uuid.New(), entry.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormLedgerEntryRepository_FindByScopeOrdered(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	propertyID := uuid.New()
	scope := ledger.NewPropertyScope(propertyID)
	otherScope := ledger.NewPropertyScope(uuid.New())

	// Insert out of date order; the repository must sort by entry date
	late := newTestEntry(t, tenantID, scope, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), "300.00", ledger.EntryTypeCredit)
	early := newTestEntry(t, tenantID, scope, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "100.00", ledger.EntryTypeCredit)
	middle := newTestEntry(t, tenantID, scope, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "200.00", ledger.EntryTypeDebit)
	foreign := newTestEntry(t, tenantID, otherScope, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "999.00", ledger.EntryTypeCredit)

	for _, e := range []*ledger.Entry{late, early, middle, foreign} {
		require.NoError(t, repo.Create(ctx, e))
	}

	t.Run("returns scope entries in date order", func(t *testing.T) {
		entries, err := repo.FindByScopeOrdered(ctx, tenantID, scope)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, early.ID, entries[0].ID)
		assert.Equal(t, middle.ID, entries[1].ID)
		assert.Equal(t, late.ID, entries[2].ID)
	})

	t.Run("empty scope returns all tenant entries", func(t *testing.T) {
		entries, err := repo.FindByScopeOrdered(ctx, tenantID, ledger.Scope{})
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})

	t.Run("same-date entries keep insertion order", func(t *testing.T) {
		tenant := uuid.New()
		sameDay := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		daScope := ledger.NewOwnerScope(uuid.New())

		first := newTestEntry(t, tenant, daScope, sameDay, "10.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, first))
		time.Sleep(5 * time.Millisecond)
		second := newTestEntry(t, tenant, daScope, sameDay, "20.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, second))

		entries, err := repo.FindByScopeOrdered(ctx, tenant, daScope)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, first.ID, entries[0].ID)
		assert.Equal(t, second.ID, entries[1].ID)
	})
}

func TestGormLedgerEntryRepository_UpdateRunningBalances(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	a := newTestEntry(t, tenantID, scope, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "100.00", ledger.EntryTypeCredit)
	b := newTestEntry(t, tenantID, scope, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "40.00", ledger.EntryTypeDebit)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	balances := map[uuid.UUID]decimal.Decimal{
		a.ID: decimal.RequireFromString("100.00"),
		b.ID: decimal.RequireFromString("60.00"),
	}
	require.NoError(t, repo.UpdateRunningBalances(ctx, tenantID, balances))

	foundA, err := repo.FindByID(ctx, tenantID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, foundA.RunningBalance)
	assert.True(t, foundA.RunningBalance.Equal(decimal.RequireFromString("100.00")))

	foundB, err := repo.FindByID(ctx, tenantID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, foundB.RunningBalance)
	assert.True(t, foundB.RunningBalance.Equal(decimal.RequireFromString("60.00")))

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.UpdateRunningBalances(ctx, tenantID, nil))
	})
}

func TestGormLedgerEntryRepository_SumByType(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	c1 := newTestEntry(t, tenantID, scope, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "100.00", ledger.EntryTypeCredit)
	c2 := newTestEntry(t, tenantID, scope, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "250.00", ledger.EntryTypeCredit)
	d1 := newTestEntry(t, tenantID, scope, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), "75.00", ledger.EntryTypeDebit)
	for _, e := range []*ledger.Entry{c1, c2, d1} {
		require.NoError(t, repo.Create(ctx, e))
	}

	t.Run("sums credits", func(t *testing.T) {
		total, err := repo.SumByType(ctx, tenantID, scope, ledger.EntryTypeCredit, nil, nil)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("350.00")), "got %s", total)
	})

	t.Run("restricts to a date range", func(t *testing.T) {
		from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		total, err := repo.SumByType(ctx, tenantID, scope, ledger.EntryTypeCredit, &from, nil)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("250.00")), "got %s", total)
	})

	t.Run("no matching entries sums to zero", func(t *testing.T) {
		total, err := repo.SumByType(ctx, uuid.New(), scope, ledger.EntryTypeDebit, nil, nil)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormLedgerEntryRepository_Save(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	t.Run("persists edits and bumps the version", func(t *testing.T) {
		entry := newTestEntry(t, tenantID, scope, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "80.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, entry))

		err := entry.UpdateDetails(entry.EntryDate, "edited", entry.EntryType, entry.Category, decimal.RequireFromString("90.00"), entry.Reference)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))
		assert.Equal(t, 2, entry.Version)

		found, err := repo.FindByID(ctx, tenantID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", found.Description)
		assert.True(t, found.Amount.Equal(decimal.RequireFromString("90.00")))
		assert.Nil(t, found.RunningBalance, "edit must clear the cached balance")
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		entry := newTestEntry(t, tenantID, scope, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), "10.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, entry))

		stale := *entry
		require.NoError(t, repo.Save(ctx, entry))

		err := repo.Save(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormLedgerEntryRepository_Delete(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	entry := newTestEntry(t, tenantID, scope, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), "45.00", ledger.EntryTypeDebit)
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, repo.Delete(ctx, tenantID, entry.ID))

	_, err := repo.FindByID(ctx, tenantID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tenantID, entry.ID), shared.ErrNotFound)
}

func TestGormLedgerEntryRepository_List(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerEntryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	scope := ledger.NewPropertyScope(uuid.New())

	for i := 0; i < 5; i++ {
		date := time.Date(2026, 1, 5+i, 0, 0, 0, 0, time.UTC)
		e := newTestEntry(t, tenantID, scope, date, "50.00", ledger.EntryTypeCredit)
		require.NoError(t, repo.Create(ctx, e))
	}

	t.Run("paginates newest first", func(t *testing.T) {
		filter := ledger.EntryFilter{Filter: shared.Filter{Page: 1, PageSize: 2}, Scope: scope}
		entries, total, err := repo.List(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].EntryDate.After(entries[1].EntryDate))
	})

	t.Run("filters by type", func(t *testing.T) {
		debit := ledger.EntryTypeDebit
		filter := ledger.EntryFilter{Filter: shared.DefaultFilter(), Scope: scope, Type: &debit}
		entries, total, err := repo.List(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, entries)
	})
}
