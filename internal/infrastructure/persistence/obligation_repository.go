package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormObligationRepository implements leasing.ObligationRepository using GORM
type GormObligationRepository struct {
	db *gorm.DB
}

// NewGormObligationRepository creates a new GormObligationRepository
func NewGormObligationRepository(db *gorm.DB) *GormObligationRepository {
	return &GormObligationRepository{db: db}
}

// Create creates a new obligation
func (r *GormObligationRepository) Create(ctx context.Context, obligation *leasing.Obligation) error {
	model := models.ObligationModelFromDomain(obligation)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an obligation with optimistic locking
func (r *GormObligationRepository) Save(ctx context.Context, obligation *leasing.Obligation) error {
	model := models.ObligationModelFromDomain(obligation)
	model.Version = obligation.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.ObligationModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", obligation.ID, obligation.TenantID, obligation.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	obligation.IncrementVersion()
	return nil
}

// FindByID finds an obligation by ID for a tenant
func (r *GormObligationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leasing.Obligation, error) {
	var model models.ObligationModel
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

// FindByScheduleKey finds an obligation by its natural key (lease, due date, type)
func (r *GormObligationRepository) FindByScheduleKey(ctx context.Context, tenantID, leaseID uuid.UUID, dueDate time.Time, obligationType leasing.ObligationType) (*leasing.Obligation, error) {
	var model models.ObligationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lease_id = ? AND due_date = ? AND type = ?", tenantID, leaseID, dueDate, obligationType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByLease returns every obligation of the lease that can still
// receive payments, ordered oldest due date first
func (r *GormObligationRepository) FindPendingByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*leasing.Obligation, error) {
	var obligationModels []models.ObligationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lease_id = ? AND status IN ?", tenantID, leaseID,
			[]leasing.ObligationStatus{leasing.ObligationStatusPending, leasing.ObligationStatusPartial, leasing.ObligationStatusOverdue}).
		Order("due_date ASC, created_at ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]*leasing.Obligation, len(obligationModels))
	for i := range obligationModels {
		obligations[i] = obligationModels[i].ToDomain()
	}
	return obligations, nil
}

// FindDueBefore returns unpaid obligations whose due date precedes the cutoff
func (r *GormObligationRepository) FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*leasing.Obligation, error) {
	var obligationModels []models.ObligationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND due_date < ? AND status IN ?", tenantID, cutoff,
			[]leasing.ObligationStatus{leasing.ObligationStatusPending, leasing.ObligationStatusPartial}).
		Order("due_date ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]*leasing.Obligation, len(obligationModels))
	for i := range obligationModels {
		obligations[i] = obligationModels[i].ToDomain()
	}
	return obligations, nil
}

// List returns obligations matching the filter with total count
func (r *GormObligationRepository) List(ctx context.Context, tenantID uuid.UUID, filter leasing.ObligationFilter) ([]*leasing.Obligation, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ObligationModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var obligationModels []models.ObligationModel
	if err := applyPagination(query, filter.Filter, "due_date DESC").
		Find(&obligationModels).Error; err != nil {
		return nil, 0, err
	}
	obligations := make([]*leasing.Obligation, len(obligationModels))
	for i := range obligationModels {
		obligations[i] = obligationModels[i].ToDomain()
	}
	return obligations, total, nil
}
