package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/rentfolio/backend/internal/application/payment"
)

// PaymentReturnHandler handles the browser-facing return endpoint the
// customer lands on after paying at the provider. Read only: the webhook
// is the sole writer of payment outcomes.
type PaymentReturnHandler struct {
	BaseHandler
	returnService *paymentapp.ReturnService
}

// NewPaymentReturnHandler creates a new PaymentReturnHandler
func NewPaymentReturnHandler(returnService *paymentapp.ReturnService) *PaymentReturnHandler {
	return &PaymentReturnHandler{returnService: returnService}
}

// RegisterRoutes registers the payment return route
func (h *PaymentReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/return/:providerTxId", h.GetReturnStatus)
}

// GetReturnStatus reports the current state of a transaction for display
func (h *PaymentReturnHandler) GetReturnStatus(c *gin.Context) {
	providerTxID := c.Param("providerTxId")
	if providerTxID == "" {
		h.BadRequest(c, "Missing provider transaction ID")
		return
	}

	status, err := h.returnService.GetReturnStatus(c.Request.Context(), providerTxID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
