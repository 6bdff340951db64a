package payment

import (
	"context"
	"errors"
)

// Gateway errors
var (
	// ErrSignatureMismatch is returned when the x-token header does not match
	// the recomputed HMAC of the notification
	ErrSignatureMismatch = errors.New("payment: notification signature mismatch")
	// ErrMalformedNotification is returned when the notification body cannot
	// be parsed or misses required fields
	ErrMalformedNotification = errors.New("payment: malformed notification")
	// ErrStatusUnconfirmed is returned when the provider's status endpoint
	// could not confirm the transaction within the query timeout
	ErrStatusUnconfirmed = errors.New("payment: provider status unconfirmed")
)

// StatusResult is the provider's authoritative view of one transaction,
// obtained from its status endpoint rather than from the notification.
type StatusResult struct {
	// Confirmed is true when the provider answered authoritatively
	Confirmed bool
	// Success is the provider's verdict; meaningful only when Confirmed
	Success bool
	// RawPayload is the provider's response body, kept for reconciliation
	RawPayload string
}

// Gateway is the port to the external payment provider. The concrete
// adapter lives in the infrastructure layer; the webhook service only
// depends on this interface.
type Gateway interface {
	// Provider returns the provider name used on transaction records
	Provider() string

	// ParseNotification parses a raw webhook body (form-encoded or JSON)
	// into a Notification and validates required fields
	ParseNotification(body []byte, contentType string) (*Notification, error)

	// VerifySignature recomputes the HMAC over the notification and compares
	// it to the x-token header value. An empty token is tolerated; a present
	// but mismatched token returns ErrSignatureMismatch.
	VerifySignature(n *Notification, token string) error

	// QueryStatus asks the provider for the authoritative status of a
	// transaction. Implementations bound the call with a timeout; on any
	// failure they return an unconfirmed result rather than an error so the
	// caller can fall back to the notification's own indicator.
	QueryStatus(ctx context.Context, providerTransactionID string) StatusResult
}
