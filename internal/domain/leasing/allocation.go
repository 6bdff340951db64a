package leasing

import (
	"time"

	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationService is a domain service that consumes advance payment balances
// against pending obligations of the same lease. It ensures that:
// 1. Advances are consumed strictly oldest-paid-first
// 2. Obligations are settled strictly oldest-due-first
// 3. No allocation exceeds an advance's remaining balance or an obligation's outstanding amount
//
// The service is pure: it mutates the aggregates it receives and reports what
// it touched, leaving persistence to the caller.
type AllocationService struct{}

// NewAllocationService creates a new allocation domain service
func NewAllocationService() *AllocationService {
	return &AllocationService{}
}

// AllocationResult describes the outcome of one allocation pass.
type AllocationResult struct {
	ObligationsProcessed int             // Obligations that received any allocation
	ObligationsPaid      int             // Obligations fully settled in this pass
	TotalConsumed        decimal.Decimal // Total amount drawn from advances
	TouchedAdvances      []*AdvancePayment
	TouchedObligations   []*Obligation
}

// Allocate applies available advance balances to pending obligations.
// Both slices must already be ordered: advances oldest-paid-first,
// obligations oldest-due-first. The pass stops when either side is
// exhausted. Advances that cannot be allocated (refunded, exhausted)
// are skipped.
func (s *AllocationService) Allocate(
	advances []*AdvancePayment,
	obligations []*Obligation,
	at time.Time,
) (*AllocationResult, error) {
	result := &AllocationResult{
		TotalConsumed:      decimal.Zero,
		TouchedAdvances:    make([]*AdvancePayment, 0),
		TouchedObligations: make([]*Obligation, 0),
	}

	touchedAdvances := make(map[*AdvancePayment]bool)
	advanceIdx := 0

	for _, obligation := range obligations {
		if obligation == nil || !obligation.Status.CanReceivePayment() {
			continue
		}

		consumedForObligation := decimal.Zero

		for advanceIdx < len(advances) && obligation.Outstanding().GreaterThan(decimal.Zero) {
			advance := advances[advanceIdx]
			if advance == nil || !advance.CanAllocate() {
				advanceIdx++
				continue
			}
			if advance.LeaseID != obligation.LeaseID {
				return nil, shared.NewDomainError("LEASE_MISMATCH",
					"Advance and obligation belong to different leases")
			}

			consumed, err := advance.Consume(obligation.Outstanding())
			if err != nil {
				return nil, err
			}
			if _, err := obligation.ApplyPayment(consumed, at, advance.Method); err != nil {
				return nil, err
			}

			consumedForObligation = consumedForObligation.Add(consumed)
			result.TotalConsumed = result.TotalConsumed.Add(consumed)
			if !touchedAdvances[advance] {
				touchedAdvances[advance] = true
				result.TouchedAdvances = append(result.TouchedAdvances, advance)
			}
			if !advance.CanAllocate() {
				advanceIdx++
			}
		}

		if consumedForObligation.GreaterThan(decimal.Zero) {
			result.ObligationsProcessed++
			result.TouchedObligations = append(result.TouchedObligations, obligation)
			if obligation.IsPaid() {
				result.ObligationsPaid++
			}
		}
		if advanceIdx >= len(advances) {
			break
		}
	}

	return result, nil
}
