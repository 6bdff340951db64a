package payment

// intouchNotification is the JSON shape of a webhook delivery. The same
// field names double as form keys for form-encoded deliveries.
type intouchNotification struct {
	SiteID        string `json:"site_id"`
	TransactionID string `json:"trans_id"`
	Date          string `json:"trans_date"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Signature     string `json:"signature"`
	PaymentMethod string `json:"payment_method"`
	PayerPhone    string `json:"payer_phone_number"`
	PhonePrefix   string `json:"payer_phone_prefix"`
	Language      string `json:"language"`
	Version       string `json:"version"`
	PaymentConfig string `json:"payment_config"`
	PageAction    string `json:"page_action"`
	Custom        string `json:"custom_field"`
	Designation   string `json:"designation"`
	ErrorMessage  string `json:"error_message"`
}

// intouchStatusRequest is the body of a status re-query
type intouchStatusRequest struct {
	SiteID        string `json:"site_id"`
	TransactionID string `json:"trans_id"`
}

// intouchStatusResponse is the provider's answer to a status re-query
type intouchStatusResponse struct {
	Status       string `json:"status"`
	TransID      string `json:"trans_id"`
	Amount       string `json:"amount"`
	ErrorMessage string `json:"error_message"`
}

// statusSuccessValues are the provider status values that mean the payment
// went through
var statusSuccessValues = map[string]bool{
	"SUCCESSFUL": true,
	"SUCCESS":    true,
	"SUCCES":     true,
	"PAID":       true,
}

// statusFailureValues are the provider status values that mean the payment
// definitively failed
var statusFailureValues = map[string]bool{
	"FAILED":   true,
	"FAILURE":  true,
	"CANCELED": true,
	"EXPIRED":  true,
}
