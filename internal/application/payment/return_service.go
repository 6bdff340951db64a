package payment

import (
	"context"

	"github.com/rentfolio/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// ReturnService answers the browser-facing return page the customer lands
// on after the provider redirects them back. It never mutates anything;
// state changes come exclusively through the webhook. When the local record
// is still pending it asks the provider so the page can show a fresher
// verdict than the database has.
type ReturnService struct {
	gateway      payment.Gateway
	transactions payment.TransactionRepository
	logger       *zap.Logger
}

// NewReturnService creates a new return service
func NewReturnService(
	gateway payment.Gateway,
	transactions payment.TransactionRepository,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		gateway:      gateway,
		transactions: transactions,
		logger:       logger,
	}
}

// GetReturnStatus resolves what the return page should display for a
// provider transaction id
func (s *ReturnService) GetReturnStatus(ctx context.Context, providerTransactionID string) (*ReturnStatusResponse, error) {
	transaction, err := s.transactions.FindByProviderTransactionID(ctx, providerTransactionID)
	if err != nil {
		return nil, err
	}

	resp := &ReturnStatusResponse{
		ProviderTransactionID: transaction.ProviderTransactionID,
		Status:                transaction.Status.String(),
		Amount:                transaction.Amount,
		Currency:              transaction.Currency,
		Confirmed:             transaction.IsTerminal(),
		PaidAt:                transaction.PaidAt,
	}

	if !transaction.IsTerminal() {
		status := s.gateway.QueryStatus(ctx, providerTransactionID)
		if status.Confirmed {
			resp.Confirmed = true
			if status.Success {
				resp.Status = payment.TransactionStatusCompleted.String()
			} else {
				resp.Status = payment.TransactionStatusFailed.String()
			}
		} else {
			s.logger.Debug("return page served with unconfirmed status",
				zap.String("provider_transaction_id", providerTransactionID))
		}
	}

	return resp, nil
}
