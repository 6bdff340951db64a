package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentapp "github.com/rentfolio/backend/internal/application/payment"
)

// PaymentWebhookHandler handles the payment gateway notification endpoint.
// The provider calls this endpoint directly; it authenticates with the
// x-token signature header instead of tenant credentials.
type PaymentWebhookHandler struct {
	BaseHandler
	webhookService *paymentapp.WebhookService
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler
func NewPaymentWebhookHandler(webhookService *paymentapp.WebhookService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{webhookService: webhookService}
}

// RegisterRoutes registers the gateway-facing notification route
func (h *PaymentWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/notifications", h.HandleNotification)
}

// HandleNotification processes one provider delivery. The status code is
// the contract with the provider: 2xx stops retries, anything else makes
// the provider redeliver later.
func (h *PaymentWebhookHandler) HandleNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
		return
	}

	result, err := h.webhookService.HandleNotification(
		c.Request.Context(),
		body,
		c.ContentType(),
		c.GetHeader("x-token"),
	)
	if err != nil {
		// The transaction is still pending; a non-2xx answer makes the
		// provider retry the delivery
		c.JSON(http.StatusInternalServerError, gin.H{"message": "notification processing failed"})
		return
	}

	c.JSON(result.HTTPStatus, result)
}
