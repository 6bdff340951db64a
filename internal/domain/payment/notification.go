package payment

import (
	"strings"
	"time"

	"github.com/rentfolio/backend/internal/domain/shared"
)

// successIndicator is the provider's success marker in the error-message
// field, matched case-insensitively.
const successIndicator = "SUCCES"

// Notification is the parsed body of one provider webhook delivery. Every
// field is required; the provider delivers at least once, so the same
// notification may arrive multiple times.
type Notification struct {
	SiteID        string
	TransactionID string
	Date          string
	Amount        string
	Currency      string
	Signature     string
	PaymentMethod string
	PayerPhone    string
	PhonePrefix   string
	Language      string
	Version       string
	PaymentConfig string
	PageAction    string
	Custom        string
	Designation   string
	ErrorMessage  string

	// Raw is the unparsed delivery body, kept verbatim for reconciliation
	Raw []byte
}

// dateLayouts are the timestamp formats the provider has been seen using
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	time.RFC3339,
}

// PaidAt parses the provider's trans_date field. An unparseable date falls
// back to the delivery time so the payment is still recorded.
func (n *Notification) PaidAt() time.Time {
	raw := strings.TrimSpace(n.Date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

// Validate checks that every required field is present
func (n *Notification) Validate() error {
	missing := n.missingFields()
	if len(missing) > 0 {
		return shared.NewDomainError("NOTIFICATION_INCOMPLETE", "Missing notification fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func (n *Notification) missingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"site_id", n.SiteID},
		{"trans_id", n.TransactionID},
		{"trans_date", n.Date},
		{"amount", n.Amount},
		{"currency", n.Currency},
		{"signature", n.Signature},
		{"payment_method", n.PaymentMethod},
		{"payer_phone_number", n.PayerPhone},
		{"payer_phone_prefix", n.PhonePrefix},
		{"language", n.Language},
		{"version", n.Version},
		{"payment_config", n.PaymentConfig},
		{"page_action", n.PageAction},
		{"custom_field", n.Custom},
		{"designation", n.Designation},
		{"error_message", n.ErrorMessage},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// SignatureBase returns the exact ordered concatenation of fields the
// provider signs. The order is part of the wire contract and must not change.
func (n *Notification) SignatureBase() string {
	return n.SiteID +
		n.TransactionID +
		n.Date +
		n.Amount +
		n.Currency +
		n.Signature +
		n.PaymentMethod +
		n.PayerPhone +
		n.PhonePrefix +
		n.Language +
		n.Version +
		n.PaymentConfig +
		n.PageAction +
		n.Custom +
		n.Designation +
		n.ErrorMessage
}

// IsSuccess reports whether the notification claims a successful payment
func (n *Notification) IsSuccess() bool {
	return strings.EqualFold(strings.TrimSpace(n.ErrorMessage), successIndicator)
}
