package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements ledger.EntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create appends a new ledger entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates a ledger entry with optimistic locking
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	model.Version = entry.Version + 1

	// Select("*") so zero values and cleared nullable columns are written
	result := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", entry.ID, entry.TenantID, entry.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	entry.IncrementVersion()
	return nil
}

// Delete removes a ledger entry for a tenant
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.LedgerEntryModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a ledger entry by ID for a tenant
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByScopeOrdered returns every entry in the scope in recalculation order.
// The trailing created_at and id columns break entry-date ties so the order
// is stable across runs.
func (r *GormLedgerEntryRepository) FindByScopeOrdered(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) ([]*ledger.Entry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ?", tenantID)
	query = applyScope(query, scope)

	if err := query.
		Order("entry_date ASC, created_at ASC, id ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*ledger.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}

// List returns entries matching the filter, newest first, with total count
func (r *GormLedgerEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ?", tenantID)
	query = applyScope(query, filter.Scope)
	if filter.Type != nil {
		query = query.Where("entry_type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entryModels []models.LedgerEntryModel
	if err := applyPagination(query, filter.Filter, "entry_date DESC, created_at DESC").
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]*ledger.Entry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, total, nil
}

// UpdateRunningBalances writes the cached running balance of each entry in a
// single transaction, touching only the running_balance column
func (r *GormLedgerEntryRepository) UpdateRunningBalances(ctx context.Context, tenantID uuid.UUID, balances map[uuid.UUID]decimal.Decimal) error {
	if len(balances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, balance := range balances {
			if err := tx.Model(&models.LedgerEntryModel{}).
				Where("tenant_id = ? AND id = ?", tenantID, id).
				Update("running_balance", balance).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SumByType returns the total amount of entries of the given type in the
// scope, optionally restricted to a date range
func (r *GormLedgerEntryRepository) SumByType(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope, entryType ledger.EntryType, from, to *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ? AND entry_type = ?", tenantID, entryType)
	query = applyScope(query, scope)
	if from != nil {
		query = query.Where("entry_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("entry_date <= ?", *to)
	}

	var total decimal.Decimal
	if err := query.
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// applyScope narrows a ledger query to the given scope. An empty scope
// leaves the query tenant-wide.
func applyScope(query *gorm.DB, scope ledger.Scope) *gorm.DB {
	if scope.PropertyID != nil {
		query = query.Where("property_id = ?", *scope.PropertyID)
	}
	if scope.OwnerID != nil {
		query = query.Where("owner_id = ?", *scope.OwnerID)
	}
	return query
}

// applyPagination applies page-based pagination and ordering to a query
func applyPagination(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.
		Order(defaultOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
}
