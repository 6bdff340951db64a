package leasing

import (
	"context"

	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdvanceCreatedHandler runs an allocation sweep whenever a new advance
// payment is registered, so pending obligations are settled without the
// caller having to ask for it. The sweep is idempotent, so a duplicate
// event delivery is harmless.
type AdvanceCreatedHandler struct {
	service *AdvancePaymentService
	logger  *zap.Logger
}

// NewAdvanceCreatedHandler creates a new handler
func NewAdvanceCreatedHandler(service *AdvancePaymentService, logger *zap.Logger) *AdvanceCreatedHandler {
	return &AdvanceCreatedHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *AdvanceCreatedHandler) EventTypes() []string {
	return []string{"AdvancePaymentCreated"}
}

// Handle runs the sweep for the lease named in the event
func (h *AdvanceCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*leasing.AdvancePaymentCreatedEvent)
	if !ok {
		return nil
	}

	summary, err := h.service.ApplyAdvancesToPendingObligations(ctx, created.TenantID(), created.LeaseID)
	if err != nil {
		h.logger.Error("allocation sweep after advance creation failed",
			zap.String("lease_id", created.LeaseID.String()),
			zap.Error(err))
		return err
	}

	h.logger.Debug("allocation sweep after advance creation",
		zap.String("lease_id", created.LeaseID.String()),
		zap.Int("obligations_paid", summary.ObligationsPaid))
	return nil
}

var _ shared.EventHandler = (*AdvanceCreatedHandler)(nil)
