package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BalanceRecalculator refreshes the running-balance cache of a ledger scope
// after the webhook transaction commits
type BalanceRecalculator interface {
	RecalculateRunningBalances(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) error
}

// WebhookService processes payment provider notifications. Each delivery is
// verified, matched to a pending gateway transaction and applied exactly
// once: the terminal status flip and every business effect share one
// database transaction, and the flip itself is a conditional update that
// only one delivery can win.
type WebhookService struct {
	gateway      payment.Gateway
	transactions payment.TransactionRepository
	leases       leasing.LeaseRepository
	txScope      TransactionScope
	allocator    *leasing.AllocationService
	recalculator BalanceRecalculator
	replayStore  shared.ReplayStore
	replayConfig shared.ReplayConfig
	logger       *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	gateway payment.Gateway,
	transactions payment.TransactionRepository,
	leases leasing.LeaseRepository,
	txScope TransactionScope,
	recalculator BalanceRecalculator,
	replayStore shared.ReplayStore,
	replayConfig shared.ReplayConfig,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		gateway:      gateway,
		transactions: transactions,
		leases:       leases,
		txScope:      txScope,
		allocator:    leasing.NewAllocationService(),
		recalculator: recalculator,
		replayStore:  replayStore,
		replayConfig: replayConfig,
		logger:       logger,
	}
}

// HandleNotification processes one raw webhook delivery. The returned
// result carries the HTTP status the handler must answer with: 400 for
// malformed payloads, 403 for signature mismatches, 404 for unknown
// transactions, 200 for anything processed or already processed. An error
// return means the effect could not be applied and rolled back; the
// handler answers 500 so the provider retries.
func (s *WebhookService) HandleNotification(ctx context.Context, body []byte, contentType, token string) (*NotificationResult, error) {
	notification, err := s.gateway.ParseNotification(body, contentType)
	if err != nil {
		s.logger.Warn("malformed payment notification", zap.Error(err))
		return resultStatus(http.StatusBadRequest, err.Error()), nil
	}

	if err := s.gateway.VerifySignature(notification, token); err != nil {
		s.logger.Warn("payment notification signature mismatch",
			zap.String("provider_transaction_id", notification.TransactionID))
		return resultStatus(http.StatusForbidden, "signature mismatch"), nil
	}

	transaction, err := s.transactions.FindByProviderTransactionID(ctx, notification.TransactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("notification for unknown transaction",
				zap.String("provider_transaction_id", notification.TransactionID))
			return resultStatus(http.StatusNotFound, "unknown transaction"), nil
		}
		return nil, err
	}

	if transaction.IsTerminal() {
		return resultReplay(notification.TransactionID), nil
	}

	replayKey := "webhook:" + s.gateway.Provider() + ":" + notification.TransactionID
	if s.replayConfig.Enabled && s.replayStore != nil {
		marked, err := s.replayStore.MarkProcessed(ctx, replayKey, s.replayConfig.TTL)
		if err != nil {
			// The durable guard still holds; degrade to the slow path.
			s.logger.Warn("replay store unavailable", zap.Error(err))
		} else if !marked {
			return resultReplay(notification.TransactionID), nil
		}
	}

	success := s.resolveOutcome(ctx, notification)

	result, err := s.applyOutcome(ctx, transaction, notification, success)
	if err != nil {
		if s.replayConfig.Enabled && s.replayStore != nil {
			if ferr := s.replayStore.Forget(ctx, replayKey); ferr != nil {
				s.logger.Warn("failed to release replay key", zap.Error(ferr))
			}
		}
		return nil, err
	}
	return result, nil
}

// resolveOutcome decides whether the payment succeeded. A success
// notification is re-checked against the provider's status endpoint when
// one is reachable; an unconfirmed answer falls back to the notification's
// own indicator. Failure notifications are taken at face value.
func (s *WebhookService) resolveOutcome(ctx context.Context, n *payment.Notification) bool {
	if !n.IsSuccess() {
		return false
	}

	status := s.gateway.QueryStatus(ctx, n.TransactionID)
	if !status.Confirmed {
		s.logger.Info("provider status unconfirmed, trusting notification",
			zap.String("provider_transaction_id", n.TransactionID))
		return true
	}
	if !status.Success {
		s.logger.Warn("provider contradicts success notification",
			zap.String("provider_transaction_id", n.TransactionID))
	}
	return status.Success
}

func (s *WebhookService) applyOutcome(ctx context.Context, transaction *payment.Transaction, n *payment.Notification, success bool) (*NotificationResult, error) {
	result := &NotificationResult{
		HTTPStatus:            http.StatusOK,
		ProviderTransactionID: n.TransactionID,
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if !success {
			won, err := repos.Transactions().MarkFailedIfPending(ctx, transaction.ID, string(n.Raw))
			if err != nil {
				return err
			}
			if !won {
				result.AlreadyProcessed = true
				return nil
			}
			result.Failed = true
			result.Message = "payment failed"
			return nil
		}

		paidAt := n.PaidAt()
		won, err := repos.Transactions().MarkCompletedIfPending(ctx, transaction.ID, paidAt, string(n.Raw))
		if err != nil {
			return err
		}
		if !won {
			result.AlreadyProcessed = true
			return nil
		}

		lease, err := repos.Leases().FindByID(ctx, transaction.TenantID, transaction.LeaseID)
		if err != nil {
			return err
		}

		switch transaction.Kind {
		case payment.KindRent:
			if err := s.applyRentEffect(ctx, repos, transaction, lease, paidAt); err != nil {
				return err
			}
		case payment.KindAdvance:
			if err := s.applyAdvanceEffect(ctx, repos, transaction, lease, paidAt); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported transaction kind %q", transaction.Kind)
		}

		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Applied {
		s.refreshBalances(ctx, transaction)
		s.logger.Info("payment notification applied",
			zap.String("tenant_id", transaction.TenantID.String()),
			zap.String("provider_transaction_id", n.TransactionID),
			zap.String("kind", transaction.Kind.String()),
			zap.String("amount", transaction.Amount.String()))
	}
	return result, nil
}

// applyRentEffect settles the linked obligation and mirrors the inflow in
// the lease's ledger scope
func (s *WebhookService) applyRentEffect(ctx context.Context, repos TransactionalRepositories, transaction *payment.Transaction, lease *leasing.Lease, paidAt time.Time) error {
	if transaction.ObligationID == nil {
		return fmt.Errorf("rent transaction %s has no linked obligation", transaction.ProviderTransactionID)
	}

	obligation, err := repos.Obligations().FindByID(ctx, transaction.TenantID, *transaction.ObligationID)
	if err != nil {
		return err
	}
	if _, err := obligation.ApplyPayment(transaction.Amount, paidAt, leasing.PaymentMethodOnline); err != nil {
		return err
	}
	if err := repos.Obligations().Save(ctx, obligation); err != nil {
		return err
	}
	obligation.ClearDomainEvents()

	entry, err := ledger.NewEntry(
		transaction.TenantID,
		ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID},
		paidAt,
		"Online rent payment on lease "+lease.Reference,
		ledger.EntryTypeCredit,
		ledger.CategoryRent,
		transaction.Amount,
		transaction.ProviderTransactionID,
	)
	if err != nil {
		return err
	}
	entry.WithObligationID(obligation.ID)
	entry.ClearDomainEvents()
	return repos.LedgerEntries().Create(ctx, entry)
}

// applyAdvanceEffect opens a new advance, mirrors the inflow in the ledger
// and immediately sweeps it against pending obligations, all in the same
// transaction
func (s *WebhookService) applyAdvanceEffect(ctx context.Context, repos TransactionalRepositories, transaction *payment.Transaction, lease *leasing.Lease, paidAt time.Time) error {
	advance, err := leasing.NewAdvancePayment(
		transaction.TenantID,
		transaction.LeaseID,
		transaction.Amount,
		paidAt,
		leasing.PaymentMethodOnline,
		transaction.ProviderTransactionID,
		"Online advance payment",
	)
	if err != nil {
		return err
	}
	advance.ClearDomainEvents()
	if err := repos.Advances().Create(ctx, advance); err != nil {
		return err
	}

	fresh, err := repos.Transactions().FindByProviderTransactionID(ctx, transaction.ProviderTransactionID)
	if err != nil {
		return err
	}
	fresh.LinkAdvance(advance.ID)
	if err := repos.Transactions().Save(ctx, fresh); err != nil {
		return err
	}

	entry, err := ledger.NewEntry(
		transaction.TenantID,
		ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID},
		paidAt,
		"Online advance payment on lease "+lease.Reference,
		ledger.EntryTypeCredit,
		ledger.CategoryAdvance,
		transaction.Amount,
		transaction.ProviderTransactionID,
	)
	if err != nil {
		return err
	}
	entry.ClearDomainEvents()
	if err := repos.LedgerEntries().Create(ctx, entry); err != nil {
		return err
	}

	advances, err := repos.Advances().FindAllocatableByLease(ctx, transaction.TenantID, transaction.LeaseID)
	if err != nil {
		return err
	}
	obligations, err := repos.Obligations().FindPendingByLease(ctx, transaction.TenantID, transaction.LeaseID)
	if err != nil {
		return err
	}
	allocation, err := s.allocator.Allocate(advances, obligations, paidAt)
	if err != nil {
		return err
	}
	for _, a := range allocation.TouchedAdvances {
		if err := repos.Advances().Save(ctx, a); err != nil {
			return err
		}
	}
	for _, o := range allocation.TouchedObligations {
		o.ClearDomainEvents()
		if err := repos.Obligations().Save(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// refreshBalances rebuilds the balance cache of the lease's scope. The
// payment is already committed; a cache refresh failure is logged and left
// to the next recalculation.
func (s *WebhookService) refreshBalances(ctx context.Context, transaction *payment.Transaction) {
	if s.recalculator == nil {
		return
	}
	lease, err := s.leases.FindByID(ctx, transaction.TenantID, transaction.LeaseID)
	if err != nil {
		s.logger.Warn("cannot resolve lease for balance refresh", zap.Error(err))
		return
	}
	scope := ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID}
	if err := s.recalculator.RecalculateRunningBalances(ctx, transaction.TenantID, scope); err != nil {
		s.logger.Warn("balance refresh after webhook failed", zap.Error(err))
	}
}
