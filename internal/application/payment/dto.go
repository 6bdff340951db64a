package payment

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// InitiatePaymentRequest represents a request to start an online payment
type InitiatePaymentRequest struct {
	LeaseID       uuid.UUID       `json:"lease_id" binding:"required"`
	Kind          string          `json:"kind" binding:"required,oneof=RENT ADVANCE"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency"`
	ObligationID  *uuid.UUID      `json:"obligation_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
}

// TransactionResponse represents a gateway transaction in API responses
type TransactionResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ProviderTransactionID string          `json:"provider_transaction_id"`
	Kind                  string          `json:"kind"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Provider              string          `json:"provider"`
	Status                string          `json:"status"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	LeaseID               uuid.UUID       `json:"lease_id"`
	ObligationID          *uuid.UUID      `json:"obligation_id,omitempty"`
	AdvanceID             *uuid.UUID      `json:"advance_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// NotificationResult is the outcome of processing one webhook delivery.
// HTTPStatus is what the handler should answer the provider with.
type NotificationResult struct {
	HTTPStatus            int    `json:"-"`
	ProviderTransactionID string `json:"provider_transaction_id,omitempty"`
	Applied               bool   `json:"applied"`
	AlreadyProcessed      bool   `json:"already_processed"`
	Failed                bool   `json:"failed"`
	Message               string `json:"message,omitempty"`
}

func resultStatus(status int, message string) *NotificationResult {
	return &NotificationResult{HTTPStatus: status, Message: message}
}

func resultReplay(providerTxID string) *NotificationResult {
	return &NotificationResult{
		HTTPStatus:            http.StatusOK,
		ProviderTransactionID: providerTxID,
		AlreadyProcessed:      true,
		Message:               "notification already processed",
	}
}

// ReturnStatusResponse is what the browser-facing return page renders
// after the customer comes back from the provider
type ReturnStatusResponse struct {
	ProviderTransactionID string          `json:"provider_transaction_id"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Confirmed             bool            `json:"confirmed"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
}

// ToTransactionResponse converts a domain transaction
func ToTransactionResponse(t *payment.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	return &TransactionResponse{
		ID:                    t.ID,
		ProviderTransactionID: t.ProviderTransactionID,
		Kind:                  t.Kind.String(),
		Amount:                t.Amount,
		Currency:              t.Currency,
		Provider:              t.Provider,
		Status:                t.Status.String(),
		PaidAt:                t.PaidAt,
		LeaseID:               t.LeaseID,
		ObligationID:          t.ObligationID,
		AdvanceID:             t.AdvanceID,
		CreatedAt:             t.CreatedAt,
	}
}
