package leasing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdvancePaymentService manages the lifecycle of pre-paid tenant funds:
// registration, FIFO allocation against pending obligations, refunds and
// transfers between leases. Every mutating operation runs its writes inside
// one database transaction so an advance, its ledger mirror and the touched
// obligations commit or roll back together. Allocation sweeps over the same
// lease are additionally serialized through a per-lease mutex so concurrent
// sweeps cannot consume the same balance twice.
type AdvancePaymentService struct {
	advanceRepo    leasing.AdvancePaymentRepository
	obligationRepo leasing.ObligationRepository
	leaseRepo      leasing.LeaseRepository
	allocator      *leasing.AllocationService
	txScope        TransactionScope
	recalculator   BalanceRecalculator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	minAmount      decimal.Decimal

	leaseLocks sync.Map // lease key -> *sync.Mutex
}

// NewAdvancePaymentService creates a new advance payment service.
// minAmount is the smallest advance the tenant accepts; zero disables the
// floor.
func NewAdvancePaymentService(
	advanceRepo leasing.AdvancePaymentRepository,
	obligationRepo leasing.ObligationRepository,
	leaseRepo leasing.LeaseRepository,
	txScope TransactionScope,
	recalculator BalanceRecalculator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	minAmount decimal.Decimal,
) *AdvancePaymentService {
	return &AdvancePaymentService{
		advanceRepo:    advanceRepo,
		obligationRepo: obligationRepo,
		leaseRepo:      leaseRepo,
		allocator:      leasing.NewAllocationService(),
		txScope:        txScope,
		recalculator:   recalculator,
		eventPublisher: eventPublisher,
		logger:         logger,
		minAmount:      minAmount,
	}
}

func (s *AdvancePaymentService) leaseLock(tenantID, leaseID uuid.UUID) *sync.Mutex {
	key := tenantID.String() + "|" + leaseID.String()
	actual, _ := s.leaseLocks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// CreateAdvancePayment registers a manual advance and mirrors it as a CREDIT
// ledger entry in the lease's scope, both in one transaction. The created
// event publishes after the commit so the allocation sweep can pick it up.
func (s *AdvancePaymentService) CreateAdvancePayment(ctx context.Context, tenantID uuid.UUID, req CreateAdvancePaymentRequest) (*AdvancePaymentResponse, error) {
	if s.minAmount.GreaterThan(decimal.Zero) && req.Amount.LessThan(s.minAmount) {
		return nil, shared.NewDomainError("AMOUNT_BELOW_MINIMUM",
			"Advance amount is below the configured minimum of "+s.minAmount.StringFixed(2))
	}

	lease, err := s.leaseRepo.FindByID(ctx, tenantID, req.LeaseID)
	if err != nil {
		return nil, err
	}

	advance, err := leasing.NewAdvancePayment(
		tenantID,
		lease.ID,
		req.Amount,
		req.PaidDate,
		leasing.PaymentMethod(req.Method),
		req.Reference,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Advances().Create(ctx, advance); err != nil {
			return err
		}
		entry, err := ledger.NewEntry(
			tenantID,
			ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID},
			advance.PaidDate,
			"Advance payment received on lease "+lease.Reference,
			ledger.EntryTypeCredit,
			ledger.CategoryAdvance,
			advance.Amount,
			advance.Reference,
		)
		if err != nil {
			return err
		}
		entry.ClearDomainEvents()
		return repos.LedgerEntries().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, advance.GetDomainEvents())
	advance.ClearDomainEvents()
	s.refreshBalances(ctx, tenantID, lease)

	s.logger.Info("advance payment created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("advance_id", advance.ID.String()),
		zap.String("lease_id", lease.ID.String()),
		zap.String("amount", advance.Amount.String()))

	return ToAdvancePaymentResponse(advance), nil
}

// GetAdvancePayment returns a single advance payment
func (s *AdvancePaymentService) GetAdvancePayment(ctx context.Context, tenantID, advanceID uuid.UUID) (*AdvancePaymentResponse, error) {
	advance, err := s.advanceRepo.FindByID(ctx, tenantID, advanceID)
	if err != nil {
		return nil, err
	}
	return ToAdvancePaymentResponse(advance), nil
}

// ListAdvancePayments returns advances matching the filter with pagination
func (s *AdvancePaymentService) ListAdvancePayments(ctx context.Context, tenantID uuid.UUID, filter leasing.AdvancePaymentFilter) (*shared.Paginated[*AdvancePaymentResponse], error) {
	advances, total, err := s.advanceRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*AdvancePaymentResponse, 0, len(advances))
	for _, a := range advances {
		items = append(items, ToAdvancePaymentResponse(a))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ApplyAdvancesToPendingObligations runs one FIFO allocation sweep over the
// lease: the oldest available advances are consumed against the oldest
// pending obligations until one side is exhausted. Every touched advance and
// obligation saves inside one transaction; a failed save rolls back the
// whole sweep. The sweep is idempotent; re-running it with nothing left to
// allocate changes nothing.
func (s *AdvancePaymentService) ApplyAdvancesToPendingObligations(ctx context.Context, tenantID, leaseID uuid.UUID) (*AllocationSummary, error) {
	lock := s.leaseLock(tenantID, leaseID)
	lock.Lock()
	defer lock.Unlock()

	var result *leasing.AllocationResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		advances, err := repos.Advances().FindAllocatableByLease(ctx, tenantID, leaseID)
		if err != nil {
			return err
		}
		obligations, err := repos.Obligations().FindPendingByLease(ctx, tenantID, leaseID)
		if err != nil {
			return err
		}

		result, err = s.allocator.Allocate(advances, obligations, time.Now())
		if err != nil {
			return err
		}

		for _, advance := range result.TouchedAdvances {
			if err := repos.Advances().Save(ctx, advance); err != nil {
				return err
			}
		}
		for _, obligation := range result.TouchedObligations {
			if err := repos.Obligations().Save(ctx, obligation); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, obligation := range result.TouchedObligations {
		s.publishEvents(ctx, obligation.GetDomainEvents())
		obligation.ClearDomainEvents()
	}

	if result.TotalConsumed.GreaterThan(decimal.Zero) {
		s.logger.Info("advance allocation sweep completed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("lease_id", leaseID.String()),
			zap.Int("obligations_paid", result.ObligationsPaid),
			zap.String("total_consumed", result.TotalConsumed.String()))
	}

	return &AllocationSummary{
		LeaseID:              leaseID,
		ObligationsProcessed: result.ObligationsProcessed,
		ObligationsPaid:      result.ObligationsPaid,
		TotalConsumed:        result.TotalConsumed,
	}, nil
}

// RefundAdvancePayment returns the remaining balance of an advance to the
// renter and mirrors the outflow as a DEBIT ledger entry in the lease's
// scope, both in one transaction. Refunded advances can never be allocated
// again.
func (s *AdvancePaymentService) RefundAdvancePayment(ctx context.Context, tenantID, advanceID uuid.UUID, req RefundAdvanceRequest) (*RefundResult, error) {
	advance, err := s.advanceRepo.FindByID(ctx, tenantID, advanceID)
	if err != nil {
		return nil, err
	}

	lock := s.leaseLock(tenantID, advance.LeaseID)
	lock.Lock()
	defer lock.Unlock()

	lease, err := s.leaseRepo.FindByID(ctx, tenantID, advance.LeaseID)
	if err != nil {
		return nil, err
	}

	var refunded decimal.Decimal
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Re-read under the lock so a concurrent sweep cannot slip in between.
		advance, err = repos.Advances().FindByID(ctx, tenantID, advanceID)
		if err != nil {
			return err
		}

		refunded, err = advance.Refund(req.Reason)
		if err != nil {
			return err
		}

		if err := repos.Advances().Save(ctx, advance); err != nil {
			return err
		}

		entry, err := ledger.NewEntry(
			tenantID,
			ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID},
			time.Now(),
			"Advance payment refund on lease "+lease.Reference,
			ledger.EntryTypeDebit,
			ledger.CategoryRefund,
			refunded,
			advance.Reference,
		)
		if err != nil {
			return err
		}
		entry.ClearDomainEvents()
		return repos.LedgerEntries().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, advance.GetDomainEvents())
	advance.ClearDomainEvents()
	s.refreshBalances(ctx, tenantID, lease)

	s.logger.Info("advance payment refunded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("advance_id", advance.ID.String()),
		zap.String("refunded", refunded.String()))

	return &RefundResult{
		Advance:        ToAdvancePaymentResponse(advance),
		RefundedAmount: refunded,
	}, nil
}

// TransferAdvance moves the remaining balance of an advance to another
// lease of the same tenant. The source closes and the new advance opens on
// the target in one transaction, then the target lease gets an allocation
// sweep. The move is ledger neutral: no entries are written because no
// money enters or leaves the tenant's books.
func (s *AdvancePaymentService) TransferAdvance(ctx context.Context, tenantID, advanceID uuid.UUID, req TransferAdvanceRequest) (*AdvancePaymentResponse, error) {
	advance, err := s.advanceRepo.FindByID(ctx, tenantID, advanceID)
	if err != nil {
		return nil, err
	}
	if advance.LeaseID == req.TargetLeaseID {
		return nil, shared.NewDomainError("SAME_LEASE", "Cannot transfer an advance to its own lease")
	}

	// Target must exist and belong to the tenant before the source is touched.
	if _, err := s.leaseRepo.FindByID(ctx, tenantID, req.TargetLeaseID); err != nil {
		return nil, err
	}

	lock := s.leaseLock(tenantID, advance.LeaseID)
	lock.Lock()

	var target *leasing.AdvancePayment
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		advance, err = repos.Advances().FindByID(ctx, tenantID, advanceID)
		if err != nil {
			return err
		}

		target, err = advance.TransferTo(req.TargetLeaseID, req.Reason)
		if err != nil {
			return err
		}

		if err := repos.Advances().Save(ctx, advance); err != nil {
			return err
		}
		return repos.Advances().Create(ctx, target)
	})
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, advance.GetDomainEvents())
	advance.ClearDomainEvents()
	s.publishEvents(ctx, target.GetDomainEvents())
	target.ClearDomainEvents()

	s.logger.Info("advance payment transferred",
		zap.String("tenant_id", tenantID.String()),
		zap.String("source_advance_id", advance.ID.String()),
		zap.String("target_advance_id", target.ID.String()),
		zap.String("target_lease_id", req.TargetLeaseID.String()))

	if _, err := s.ApplyAdvancesToPendingObligations(ctx, tenantID, req.TargetLeaseID); err != nil {
		s.logger.Warn("post-transfer allocation sweep failed",
			zap.String("lease_id", req.TargetLeaseID.String()),
			zap.Error(err))
	}

	return ToAdvancePaymentResponse(target), nil
}

func (s *AdvancePaymentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish leasing events", zap.Error(err))
	}
}

// refreshBalances rebuilds the balance cache of the lease's scope. The
// write is already committed; a cache refresh failure is logged and left to
// the next recalculation.
func (s *AdvancePaymentService) refreshBalances(ctx context.Context, tenantID uuid.UUID, lease *leasing.Lease) {
	if s.recalculator == nil {
		return
	}
	scope := ledger.Scope{PropertyID: &lease.PropertyID, OwnerID: &lease.OwnerID}
	if err := s.recalculator.RecalculateRunningBalances(ctx, tenantID, scope); err != nil {
		s.logger.Warn("balance refresh after advance operation failed",
			zap.String("lease_id", lease.ID.String()),
			zap.Error(err))
	}
}
