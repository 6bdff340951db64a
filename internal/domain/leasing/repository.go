package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// ObligationFilter defines filtering options for obligation queries
type ObligationFilter struct {
	shared.Filter
	LeaseID *uuid.UUID
	Status  *ObligationStatus
	Type    *ObligationType
	DueFrom *time.Time
	DueTo   *time.Time
}

// ObligationRepository defines the interface for obligation persistence
type ObligationRepository interface {
	// Create creates a new obligation
	Create(ctx context.Context, obligation *Obligation) error

	// Save updates an obligation with optimistic locking
	Save(ctx context.Context, obligation *Obligation) error

	// FindByID finds an obligation by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Obligation, error)

	// FindByScheduleKey finds an obligation by its natural key (lease, due
	// date, type); used to prevent duplicate schedule generation
	FindByScheduleKey(ctx context.Context, tenantID, leaseID uuid.UUID, dueDate time.Time, obligationType ObligationType) (*Obligation, error)

	// FindPendingByLease returns every obligation of the lease that can still
	// receive payments, ordered oldest due date first
	FindPendingByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*Obligation, error)

	// FindDueBefore returns unpaid obligations whose due date precedes the
	// cutoff, for overdue marking
	FindDueBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) ([]*Obligation, error)

	// List returns obligations matching the filter with total count
	List(ctx context.Context, tenantID uuid.UUID, filter ObligationFilter) ([]*Obligation, int64, error)
}

// AdvancePaymentFilter defines filtering options for advance payment queries
type AdvancePaymentFilter struct {
	shared.Filter
	LeaseID *uuid.UUID
	Status  *AdvanceStatus
}

// AdvancePaymentRepository defines the interface for advance payment persistence
type AdvancePaymentRepository interface {
	// Create creates a new advance payment
	Create(ctx context.Context, advance *AdvancePayment) error

	// Save updates an advance payment with optimistic locking
	Save(ctx context.Context, advance *AdvancePayment) error

	// FindByID finds an advance payment by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AdvancePayment, error)

	// FindAllocatableByLease returns the spendable advances of the lease,
	// ordered oldest paid date first (FIFO)
	FindAllocatableByLease(ctx context.Context, tenantID, leaseID uuid.UUID) ([]*AdvancePayment, error)

	// List returns advance payments matching the filter with total count
	List(ctx context.Context, tenantID uuid.UUID, filter AdvancePaymentFilter) ([]*AdvancePayment, int64, error)
}
