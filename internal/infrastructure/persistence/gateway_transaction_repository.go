package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements payment.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create creates a new pending transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *payment.Transaction) error {
	model := models.GatewayTransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates a transaction with optimistic locking
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *payment.Transaction) error {
	model := models.GatewayTransactionModelFromDomain(transaction)
	model.Version = transaction.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.GatewayTransactionModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", transaction.ID, transaction.TenantID, transaction.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	transaction.IncrementVersion()
	return nil
}

// FindByID finds a transaction by ID for a tenant
func (r *GormTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.Transaction, error) {
	var model models.GatewayTransactionModel
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

// FindByProviderTransactionID finds a transaction by its provider id. The
// column is globally unique, so no tenant filter applies; a webhook delivery
// carries no tenant credentials.
func (r *GormTransactionRepository) FindByProviderTransactionID(ctx context.Context, providerTransactionID string) (*payment.Transaction, error) {
	var model models.GatewayTransactionModel
	if err := r.db.WithContext(ctx).
		Where("provider_transaction_id = ?", providerTransactionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkCompletedIfPending atomically flips pending -> completed. The status
// guard in the WHERE clause makes concurrent deliveries race safely: exactly
// one UPDATE matches a row, and only that caller sees won == true.
func (r *GormTransactionRepository) MarkCompletedIfPending(ctx context.Context, id uuid.UUID, paidAt time.Time, rawNotification string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GatewayTransactionModel{}).
		Where("id = ? AND status = ?", id, payment.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":           payment.TransactionStatusCompleted,
			"paid_at":          paidAt,
			"raw_notification": rawNotification,
			"updated_at":       time.Now(),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailedIfPending atomically flips pending -> failed
func (r *GormTransactionRepository) MarkFailedIfPending(ctx context.Context, id uuid.UUID, rawNotification string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GatewayTransactionModel{}).
		Where("id = ? AND status = ?", id, payment.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":           payment.TransactionStatusFailed,
			"raw_notification": rawNotification,
			"updated_at":       time.Now(),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns transactions matching the filter with total count
func (r *GormTransactionRepository) List(ctx context.Context, tenantID uuid.UUID, filter payment.TransactionFilter) ([]*payment.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.GatewayTransactionModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactionModels []models.GatewayTransactionModel
	if err := applyPagination(query, filter.Filter, "created_at DESC").
		Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}
	transactions := make([]*payment.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToDomain()
	}
	return transactions, total, nil
}
