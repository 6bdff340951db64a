package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionService creates and reads gateway transactions. A transaction
// is opened PENDING before the customer is sent to the provider; the
// webhook later resolves it.
type TransactionService struct {
	transactions     payment.TransactionRepository
	obligations      leasing.ObligationRepository
	leases           leasing.LeaseRepository
	provider         string
	defaultCurrency  string
	minAdvanceAmount decimal.Decimal
	logger           *zap.Logger
}

// NewTransactionService creates a new transaction service. minAdvanceAmount
// is the same floor the manual advance path enforces; zero disables it.
func NewTransactionService(
	transactions payment.TransactionRepository,
	obligations leasing.ObligationRepository,
	leases leasing.LeaseRepository,
	provider, defaultCurrency string,
	minAdvanceAmount decimal.Decimal,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		transactions:     transactions,
		obligations:      obligations,
		leases:           leases,
		provider:         provider,
		defaultCurrency:  defaultCurrency,
		minAdvanceAmount: minAdvanceAmount,
		logger:           logger,
	}
}

// InitiatePayment opens a pending transaction for an online payment. The
// generated provider transaction id is what the provider echoes back in
// notifications, so it must be unique across all tenants.
func (s *TransactionService) InitiatePayment(ctx context.Context, tenantID uuid.UUID, req InitiatePaymentRequest) (*TransactionResponse, error) {
	lease, err := s.leases.FindByID(ctx, tenantID, req.LeaseID)
	if err != nil {
		return nil, err
	}

	kind := payment.Kind(req.Kind)
	switch kind {
	case payment.KindRent:
		if req.ObligationID == nil {
			return nil, shared.NewDomainError("MISSING_OBLIGATION", "Rent payments must name the obligation they settle")
		}
		obligation, err := s.obligations.FindByID(ctx, tenantID, *req.ObligationID)
		if err != nil {
			return nil, err
		}
		if !obligation.Status.CanReceivePayment() {
			return nil, shared.NewDomainError("OBLIGATION_NOT_PAYABLE", "Obligation can no longer receive payments")
		}
	case payment.KindAdvance:
		if s.minAdvanceAmount.GreaterThan(decimal.Zero) && req.Amount.LessThan(s.minAdvanceAmount) {
			return nil, shared.NewDomainError("AMOUNT_BELOW_MINIMUM",
				"Advance amount is below the configured minimum of "+s.minAdvanceAmount.StringFixed(2))
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	providerTxID := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	transaction, err := payment.NewTransaction(
		tenantID,
		providerTxID,
		kind,
		req.Amount,
		currency,
		s.provider,
		lease.ID,
	)
	if err != nil {
		return nil, err
	}
	if req.ObligationID != nil {
		transaction.WithObligation(*req.ObligationID)
	}
	if req.CustomerName != "" || req.CustomerPhone != "" {
		transaction.WithCustomer(req.CustomerName, req.CustomerPhone)
	}

	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.logger.Info("payment initiated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("provider_transaction_id", providerTxID),
		zap.String("kind", kind.String()),
		zap.String("amount", transaction.Amount.String()))

	return ToTransactionResponse(transaction), nil
}

// GetTransaction returns a single transaction
func (s *TransactionService) GetTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.transactions.FindByID(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(transaction), nil
}

// ListTransactions returns transactions matching the filter with pagination
func (s *TransactionService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter payment.TransactionFilter) (*shared.Paginated[*TransactionResponse], error) {
	transactions, total, err := s.transactions.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, ToTransactionResponse(t))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
