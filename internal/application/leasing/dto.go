package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// CreateAdvancePaymentRequest represents a request to register a manual
// advance payment on a lease
type CreateAdvancePaymentRequest struct {
	LeaseID   uuid.UUID       `json:"lease_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidDate  time.Time       `json:"paid_date" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// RefundAdvanceRequest represents a request to refund an advance's
// remaining balance
type RefundAdvanceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransferAdvanceRequest represents a request to move an advance's
// remaining balance to another lease
type TransferAdvanceRequest struct {
	TargetLeaseID uuid.UUID `json:"target_lease_id" binding:"required"`
	Reason        string    `json:"reason" binding:"required"`
}

// CreateObligationRequest represents a request to schedule an obligation
type CreateObligationRequest struct {
	LeaseID   uuid.UUID       `json:"lease_id" binding:"required"`
	DueDate   time.Time       `json:"due_date" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Reference string          `json:"reference"`
}

// AdvancePaymentResponse represents an advance payment in API responses
type AdvancePaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	LeaseID          uuid.UUID       `json:"lease_id"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaidDate         time.Time       `json:"paid_date"`
	Method           string          `json:"method"`
	Reference        string          `json:"reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Status           string          `json:"status"`
	RefundedAt       *time.Time      `json:"refunded_at,omitempty"`
	RefundReason     string          `json:"refund_reason,omitempty"`
	TransferredAt    *time.Time      `json:"transferred_at,omitempty"`
	TransferredToID  *uuid.UUID      `json:"transferred_to_id,omitempty"`
	TransferredFrom  *uuid.UUID      `json:"transferred_from,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ObligationResponse represents an obligation in API responses
type ObligationResponse struct {
	ID          uuid.UUID       `json:"id"`
	LeaseID     uuid.UUID       `json:"lease_id"`
	DueDate     time.Time       `json:"due_date"`
	PaidDate    *time.Time      `json:"paid_date,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	Method      string          `json:"method,omitempty"`
	Reference   string          `json:"reference,omitempty"`
}

// AllocationSummary reports the outcome of one allocation sweep over a lease
type AllocationSummary struct {
	LeaseID              uuid.UUID       `json:"lease_id"`
	ObligationsProcessed int             `json:"obligations_processed"`
	ObligationsPaid      int             `json:"obligations_paid"`
	TotalConsumed        decimal.Decimal `json:"total_consumed"`
}

// RefundResult reports a refunded advance and the amount returned
type RefundResult struct {
	Advance        *AdvancePaymentResponse `json:"advance"`
	RefundedAmount decimal.Decimal         `json:"refunded_amount"`
}

// ToAdvancePaymentResponse converts a domain advance payment
func ToAdvancePaymentResponse(a *leasing.AdvancePayment) *AdvancePaymentResponse {
	if a == nil {
		return nil
	}
	return &AdvancePaymentResponse{
		ID:               a.ID,
		LeaseID:          a.LeaseID,
		Amount:           a.Amount,
		RemainingBalance: a.RemainingBalance,
		PaidDate:         a.PaidDate,
		Method:           a.Method.String(),
		Reference:        a.Reference,
		Notes:            a.Notes,
		Status:           a.Status.String(),
		RefundedAt:       a.RefundedAt,
		RefundReason:     a.RefundReason,
		TransferredAt:    a.TransferredAt,
		TransferredToID:  a.TransferredToID,
		TransferredFrom:  a.TransferredFrom,
		CreatedAt:        a.CreatedAt,
	}
}

// ToObligationResponse converts a domain obligation
func ToObligationResponse(o *leasing.Obligation) *ObligationResponse {
	if o == nil {
		return nil
	}
	resp := &ObligationResponse{
		ID:          o.ID,
		LeaseID:     o.LeaseID,
		DueDate:     o.DueDate,
		PaidDate:    o.PaidDate,
		Amount:      o.Amount,
		PaidAmount:  o.PaidAmount,
		Outstanding: o.Outstanding(),
		Status:      o.Status.String(),
		Type:        o.Type.String(),
		Reference:   o.Reference,
	}
	if o.Method != nil {
		resp.Method = o.Method.String()
	}
	return resp
}
