package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/rentfolio/backend/internal/application/payment"
	"github.com/rentfolio/backend/internal/domain/payment"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/interfaces/http/dto"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles online payment transaction endpoints
type PaymentHandler struct {
	BaseHandler
	transactionService *paymentapp.TransactionService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(transactionService *paymentapp.TransactionService) *PaymentHandler {
	return &PaymentHandler{transactionService: transactionService}
}

// RegisterRoutes registers payment transaction routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Initiate)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
	}
}

// Initiate starts an online payment and returns the pending transaction
func (h *PaymentHandler) Initiate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req paymentapp.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transaction, err := h.transactionService.InitiatePayment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transaction)
}

// Get returns a single payment transaction
func (h *PaymentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	transactionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transaction)
}

// List returns payment transactions matching the filter
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	listReq.Normalize()

	filter := payment.TransactionFilter{
		Filter: shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize},
	}
	if v := c.Query("lease_id"); v != "" {
		leaseID, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid lease ID")
			return
		}
		filter.LeaseID = &leaseID
	}
	if v := c.Query("kind"); v != "" {
		kind := payment.Kind(v)
		if !kind.IsValid() {
			h.BadRequest(c, "Invalid transaction kind")
			return
		}
		filter.Kind = &kind
	}
	if v := c.Query("status"); v != "" {
		status := payment.TransactionStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid transaction status")
			return
		}
		filter.Status = &status
	}

	page, err := h.transactionService.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
