package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdvancePaymentRepository implements leasing.AdvancePaymentRepository using GORM
type GormAdvancePaymentRepository struct {
	db *gorm.DB
}

// NewGormAdvancePaymentRepository creates a new GormAdvancePaymentRepository
func NewGormAdvancePaymentRepository(db *gorm.DB) *GormAdvancePaymentRepository {
	return &GormAdvancePaymentRepository{db: db}
}

// Create creates a new advance payment
func (r *GormAdvancePaymentRepository) Create(ctx context.Context, advance *leasing.AdvancePayment) error {
	model := models.AdvancePaymentModelFromDomain(advance)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an advance payment with optimistic locking
func (r *GormAdvancePaymentRepository) Save(ctx context.Context, advance *leasing.AdvancePayment) error {
	model := models.AdvancePaymentModelFromDomain(advance)
	model.Version = advance.Version + 1

	// Select("*") so a balance consumed down to zero is written
	result := r.db.WithContext(ctx).
		Model(&models.AdvancePaymentModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", advance.ID, advance.TenantID, advance.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	advance.IncrementVersion()
	return nil
}

// FindByID finds an advance payment by ID for a tenant
func (r *GormAdvancePaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leasing.AdvancePayment, error) {
	var model models.AdvancePaymentModel
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

// FindAllocatableByLease returns the spendable advances of the lease, oldest
// paid date first so allocation consumes them in FIFO order
func (r *GormAdvancePaymentRepository) FindAllocatableByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*leasing.AdvancePayment, error) {
	var advanceModels []models.AdvancePaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lease_id = ? AND status IN ? AND remaining_balance > 0", tenantID, leaseID,
			[]leasing.AdvanceStatus{leasing.AdvanceStatusAvailable, leasing.AdvanceStatusPartiallyUsed}).
		Order("paid_date ASC, created_at ASC").
		Find(&advanceModels).Error; err != nil {
		return nil, err
	}
	advances := make([]*leasing.AdvancePayment, len(advanceModels))
	for i := range advanceModels {
		advances[i] = advanceModels[i].ToDomain()
	}
	return advances, nil
}

// List returns advance payments matching the filter with total count
func (r *GormAdvancePaymentRepository) List(ctx context.Context, tenantID uuid.UUID, filter leasing.AdvancePaymentFilter) ([]*leasing.AdvancePayment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AdvancePaymentModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var advanceModels []models.AdvancePaymentModel
	if err := applyPagination(query, filter.Filter, "paid_date DESC").
		Find(&advanceModels).Error; err != nil {
		return nil, 0, err
	}
	advances := make([]*leasing.AdvancePayment, len(advanceModels))
	for i := range advanceModels {
		advances[i] = advanceModels[i].ToDomain()
	}
	return advances, total, nil
}
