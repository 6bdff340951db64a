package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/shared"
)

// Lease ties a renter to a property for a period. The full lease lifecycle
// (signing, renewal, termination) is managed elsewhere; the reconciliation
// core only reads leases to resolve ownership and ledger scope.
type Lease struct {
	shared.TenantAggregateRoot
	PropertyID uuid.UUID
	OwnerID    uuid.UUID
	RenterID   uuid.UUID
	Reference  string
	StartDate  time.Time
	EndDate    *time.Time
}

// LeaseRepository defines read access to leases for the reconciliation core
type LeaseRepository interface {
	// FindByID finds a lease by ID for a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Lease, error)
}
