package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rentfolio/backend/internal/domain/payment"
	"go.uber.org/zap"
)

// IntouchAdapter implements the Gateway port for the InTouch mobile-money
// aggregator. Notifications arrive form-encoded or as JSON, signed with an
// HMAC-SHA256 over a fixed field concatenation carried in the x-token
// header.
type IntouchAdapter struct {
	config     *IntouchConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIntouchAdapter creates a new InTouch adapter
func NewIntouchAdapter(config *IntouchConfig, logger *zap.Logger) (*IntouchAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IntouchAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.StatusTimeout,
		},
		logger: logger,
	}, nil
}

// Provider returns the provider name recorded on transactions
func (a *IntouchAdapter) Provider() string {
	return "intouch"
}

// ParseNotification parses a webhook body into a Notification. JSON and
// form-encoded bodies are both accepted; anything else is malformed.
func (a *IntouchAdapter) ParseNotification(body []byte, contentType string) (*payment.Notification, error) {
	var wire intouchNotification

	switch {
	case strings.Contains(contentType, "application/json"):
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", payment.ErrMalformedNotification, err)
		}
	default:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", payment.ErrMalformedNotification, err)
		}
		wire = intouchNotification{
			SiteID:        values.Get("site_id"),
			TransactionID: values.Get("trans_id"),
			Date:          values.Get("trans_date"),
			Amount:        values.Get("amount"),
			Currency:      values.Get("currency"),
			Signature:     values.Get("signature"),
			PaymentMethod: values.Get("payment_method"),
			PayerPhone:    values.Get("payer_phone_number"),
			PhonePrefix:   values.Get("payer_phone_prefix"),
			Language:      values.Get("language"),
			Version:       values.Get("version"),
			PaymentConfig: values.Get("payment_config"),
			PageAction:    values.Get("page_action"),
			Custom:        values.Get("custom_field"),
			Designation:   values.Get("designation"),
			ErrorMessage:  values.Get("error_message"),
		}
	}

	n := &payment.Notification{
		SiteID:        wire.SiteID,
		TransactionID: wire.TransactionID,
		Date:          wire.Date,
		Amount:        wire.Amount,
		Currency:      wire.Currency,
		Signature:     wire.Signature,
		PaymentMethod: wire.PaymentMethod,
		PayerPhone:    wire.PayerPhone,
		PhonePrefix:   wire.PhonePrefix,
		Language:      wire.Language,
		Version:       wire.Version,
		PaymentConfig: wire.PaymentConfig,
		PageAction:    wire.PageAction,
		Custom:        wire.Custom,
		Designation:   wire.Designation,
		ErrorMessage:  wire.ErrorMessage,
		Raw:           body,
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrMalformedNotification, err)
	}
	return n, nil
}

// VerifySignature recomputes the HMAC over the notification and compares
// it to the x-token header. Deliveries without a token are let through
// because the sandbox sends none; a present token must match.
func (a *IntouchAdapter) VerifySignature(n *payment.Notification, token string) error {
	if token == "" {
		a.logger.Warn("notification delivered without x-token, accepted unverified",
			zap.String("trans_id", n.TransactionID))
		return nil
	}
	if a.config.Secret == "" {
		a.logger.Warn("no webhook secret configured, token left unverified",
			zap.String("trans_id", n.TransactionID))
		return nil
	}

	expected := a.ComputeSignature(n)
	if !hmac.Equal([]byte(strings.ToLower(token)), []byte(expected)) {
		return payment.ErrSignatureMismatch
	}
	return nil
}

// ComputeSignature returns the hex HMAC-SHA256 of the notification's
// signature base under the shared secret
func (a *IntouchAdapter) ComputeSignature(n *payment.Notification) string {
	mac := hmac.New(sha256.New, []byte(a.config.Secret))
	mac.Write([]byte(n.SignatureBase()))
	return hex.EncodeToString(mac.Sum(nil))
}

// QueryStatus asks the provider for the authoritative status of a
// transaction. Any transport or decode failure, and any non-terminal
// provider status, yields an unconfirmed result; the caller falls back to
// the notification's own indicator.
func (a *IntouchAdapter) QueryStatus(ctx context.Context, providerTransactionID string) payment.StatusResult {
	if a.config.StatusURL == "" {
		return payment.StatusResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.StatusTimeout)
	defer cancel()

	reqBody, err := json.Marshal(intouchStatusRequest{
		SiteID:        a.config.SiteID,
		TransactionID: providerTransactionID,
	})
	if err != nil {
		return payment.StatusResult{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.StatusURL, bytes.NewReader(reqBody))
	if err != nil {
		return payment.StatusResult{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("provider status query failed",
			zap.String("trans_id", providerTransactionID),
			zap.Error(err))
		return payment.StatusResult{}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		a.logger.Warn("provider status query returned unusable response",
			zap.String("trans_id", providerTransactionID),
			zap.Int("status_code", resp.StatusCode))
		return payment.StatusResult{RawPayload: string(raw)}
	}

	var status intouchStatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		return payment.StatusResult{RawPayload: string(raw)}
	}

	verdict := strings.ToUpper(strings.TrimSpace(status.Status))
	switch {
	case statusSuccessValues[verdict]:
		return payment.StatusResult{Confirmed: true, Success: true, RawPayload: string(raw)}
	case statusFailureValues[verdict]:
		return payment.StatusResult{Confirmed: true, Success: false, RawPayload: string(raw)}
	default:
		// Pending or unknown status: not authoritative either way.
		return payment.StatusResult{RawPayload: string(raw)}
	}
}

var _ payment.Gateway = (*IntouchAdapter)(nil)
