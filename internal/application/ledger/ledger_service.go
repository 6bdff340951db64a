package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service coordinates ledger entry writes and keeps the running-balance
// cache of each scope consistent. Every mutation triggers a full
// recalculation of the affected scope; recalculations of the same scope
// are serialized through a per-scope mutex.
type Service struct {
	entryRepo      ledger.EntryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger

	scopeLocks sync.Map // scope key -> *sync.Mutex
}

// NewService creates a new ledger service
func NewService(
	entryRepo ledger.EntryRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		entryRepo:      entryRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func scopeKey(tenantID uuid.UUID, scope ledger.Scope) string {
	key := "t:" + tenantID.String()
	if scope.PropertyID != nil {
		key += "|p:" + scope.PropertyID.String()
	}
	if scope.OwnerID != nil {
		key += "|o:" + scope.OwnerID.String()
	}
	return key
}

func (s *Service) scopeLock(tenantID uuid.UUID, scope ledger.Scope) *sync.Mutex {
	actual, _ := s.scopeLocks.LoadOrStore(scopeKey(tenantID, scope), &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// RecordEntry appends a new ledger entry and recalculates its scope
func (s *Service) RecordEntry(ctx context.Context, tenantID uuid.UUID, req RecordEntryRequest) (*EntryResponse, error) {
	scope := ledger.Scope{PropertyID: req.PropertyID, OwnerID: req.OwnerID}
	entry, err := ledger.NewEntry(
		tenantID,
		scope,
		req.EntryDate,
		req.Description,
		ledger.EntryType(req.EntryType),
		ledger.Category(req.Category),
		req.Amount,
		req.Reference,
	)
	if err != nil {
		return nil, err
	}
	if req.ObligationID != nil {
		entry.WithObligationID(*req.ObligationID)
	}
	if req.ExpenseID != nil {
		entry.WithExpenseID(*req.ExpenseID)
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.RecalculateRunningBalances(ctx, tenantID, scope); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	s.logger.Info("ledger entry recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("type", entry.EntryType.String()),
		zap.String("amount", entry.Amount.String()))

	return ToEntryResponse(entry), nil
}

// UpdateEntry edits an existing entry and recalculates every scope it
// touched. If the edit did not move the entry between scopes this is a
// single recalculation.
func (s *Service) UpdateEntry(ctx context.Context, tenantID, entryID uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.UpdateDetails(
		req.EntryDate,
		req.Description,
		ledger.EntryType(req.EntryType),
		ledger.Category(req.Category),
		req.Amount,
		req.Reference,
	); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.RecalculateRunningBalances(ctx, tenantID, entry.Scope()); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)
	return ToEntryResponse(entry), nil
}

// DeleteEntry removes an entry and recalculates its scope
func (s *Service) DeleteEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	scope := entry.Scope()

	if err := s.entryRepo.Delete(ctx, tenantID, entryID); err != nil {
		return err
	}

	return s.RecalculateRunningBalances(ctx, tenantID, scope)
}

// GetEntry returns a single entry
func (s *Service) GetEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(entry), nil
}

// ListEntries returns entries matching the filter with pagination
func (s *Service) ListEntries(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) (*shared.Paginated[*EntryResponse], error) {
	entries, total, err := s.entryRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToEntryResponses(entries), total, filter.Page, filter.PageSize)
	return &page, nil
}

// RecalculateRunningBalances rebuilds the running-balance cache of a scope
// from scratch. Entries are walked in (entry_date, created_at, id) order and
// each balance is the signed sum of everything up to and including the
// entry. An empty scope rebuilds every scope of the tenant.
func (s *Service) RecalculateRunningBalances(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope) error {
	lock := s.scopeLock(tenantID, scope)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.entryRepo.FindByScopeOrdered(ctx, tenantID, scope)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(entries))
	running := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		key := scopeKey(tenantID, entry.Scope())
		next := running[key].Add(entry.SignedAmount())
		running[key] = next
		balances[entry.ID] = next
	}

	if err := s.entryRepo.UpdateRunningBalances(ctx, tenantID, balances); err != nil {
		return err
	}

	s.logger.Debug("running balances recalculated",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("entries", len(entries)))
	return nil
}

// Statistics computes credit/debit totals for a scope. Totals are summed
// from the entries themselves rather than read from the balance cache, so
// they are correct even while a recalculation is pending.
func (s *Service) Statistics(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope, period Period) (*StatisticsResponse, error) {
	totalCredits, err := s.entryRepo.SumByType(ctx, tenantID, scope, ledger.EntryTypeCredit, nil, nil)
	if err != nil {
		return nil, err
	}
	totalDebits, err := s.entryRepo.SumByType(ctx, tenantID, scope, ledger.EntryTypeDebit, nil, nil)
	if err != nil {
		return nil, err
	}

	stats := &StatisticsResponse{
		TotalCredits:  totalCredits,
		TotalDebits:   totalDebits,
		Balance:       totalCredits.Sub(totalDebits),
		PeriodCredits: decimal.Zero,
		PeriodDebits:  decimal.Zero,
		PeriodNet:     decimal.Zero,
	}

	if period.From != nil || period.To != nil {
		periodCredits, err := s.entryRepo.SumByType(ctx, tenantID, scope, ledger.EntryTypeCredit, period.From, period.To)
		if err != nil {
			return nil, err
		}
		periodDebits, err := s.entryRepo.SumByType(ctx, tenantID, scope, ledger.EntryTypeDebit, period.From, period.To)
		if err != nil {
			return nil, err
		}
		stats.PeriodCredits = periodCredits
		stats.PeriodDebits = periodDebits
		stats.PeriodNet = periodCredits.Sub(periodDebits)
	}

	return stats, nil
}

// ExportCSV renders the scope's entries as a CSV document in recalculation
// order. Running balances are recomputed on the fly so the export is
// consistent even if the cache is stale.
func (s *Service) ExportCSV(ctx context.Context, tenantID uuid.UUID, scope ledger.Scope, period Period) ([]byte, error) {
	entries, err := s.entryRepo.FindByScopeOrdered(ctx, tenantID, scope)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Description", "Reference", "Category", "Type", "Amount", "Running Balance"}); err != nil {
		return nil, err
	}

	running := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		key := scopeKey(tenantID, entry.Scope())
		next := running[key].Add(entry.SignedAmount())
		running[key] = next

		if period.From != nil && entry.EntryDate.Before(*period.From) {
			continue
		}
		if period.To != nil && entry.EntryDate.After(*period.To) {
			continue
		}

		record := []string{
			entry.EntryDate.Format("2006-01-02"),
			entry.Description,
			entry.Reference,
			entry.Category.String(),
			entry.EntryType.String(),
			entry.Amount.StringFixed(2),
			next.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) publishEvents(ctx context.Context, entry *ledger.Entry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish ledger events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}
