package leasing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObligationService manages scheduled payment obligations on leases
type ObligationService struct {
	obligationRepo leasing.ObligationRepository
	leaseRepo      leasing.LeaseRepository
	logger         *zap.Logger
}

// NewObligationService creates a new obligation service
func NewObligationService(
	obligationRepo leasing.ObligationRepository,
	leaseRepo leasing.LeaseRepository,
	logger *zap.Logger,
) *ObligationService {
	return &ObligationService{
		obligationRepo: obligationRepo,
		leaseRepo:      leaseRepo,
		logger:         logger,
	}
}

// CreateObligation schedules a new obligation. The (lease, due date, type)
// key must be unique; an existing obligation with the same key is rejected.
func (s *ObligationService) CreateObligation(ctx context.Context, tenantID uuid.UUID, req CreateObligationRequest) (*ObligationResponse, error) {
	if _, err := s.leaseRepo.FindByID(ctx, tenantID, req.LeaseID); err != nil {
		return nil, err
	}

	obligationType := leasing.ObligationType(req.Type)
	existing, err := s.obligationRepo.FindByScheduleKey(ctx, tenantID, req.LeaseID, req.DueDate, obligationType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_OBLIGATION",
			"An obligation with the same lease, due date and type already exists")
	}

	obligation, err := leasing.NewObligation(
		tenantID,
		req.LeaseID,
		req.DueDate,
		req.Amount,
		obligationType,
		req.Reference,
	)
	if err != nil {
		return nil, err
	}

	if err := s.obligationRepo.Create(ctx, obligation); err != nil {
		return nil, err
	}

	s.logger.Info("obligation created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("obligation_id", obligation.ID.String()),
		zap.String("due_date", obligation.DueDate.Format("2006-01-02")))

	return ToObligationResponse(obligation), nil
}

// GetObligation returns a single obligation
func (s *ObligationService) GetObligation(ctx context.Context, tenantID, obligationID uuid.UUID) (*ObligationResponse, error) {
	obligation, err := s.obligationRepo.FindByID(ctx, tenantID, obligationID)
	if err != nil {
		return nil, err
	}
	return ToObligationResponse(obligation), nil
}

// ListObligations returns obligations matching the filter with pagination
func (s *ObligationService) ListObligations(ctx context.Context, tenantID uuid.UUID, filter leasing.ObligationFilter) (*shared.Paginated[*ObligationResponse], error) {
	obligations, total, err := s.obligationRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*ObligationResponse, 0, len(obligations))
	for _, o := range obligations {
		items = append(items, ToObligationResponse(o))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkOverdueObligations flips unpaid obligations past the cutoff to
// OVERDUE. Intended to run from a daily scheduler; marking is idempotent.
func (s *ObligationService) MarkOverdueObligations(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int, error) {
	due, err := s.obligationRepo.FindDueBefore(ctx, tenantID, asOf)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, obligation := range due {
		if err := obligation.MarkOverdue(asOf); err != nil {
			continue
		}
		if err := s.obligationRepo.Save(ctx, obligation); err != nil {
			return marked, err
		}
		marked++
	}

	if marked > 0 {
		s.logger.Info("obligations marked overdue",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("count", marked))
	}
	return marked, nil
}
