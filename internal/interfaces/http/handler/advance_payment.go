package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leasingapp "github.com/rentfolio/backend/internal/application/leasing"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/interfaces/http/dto"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
)

// AdvancePaymentHandler handles advance payment endpoints
type AdvancePaymentHandler struct {
	BaseHandler
	advanceService *leasingapp.AdvancePaymentService
}

// NewAdvancePaymentHandler creates a new AdvancePaymentHandler
func NewAdvancePaymentHandler(advanceService *leasingapp.AdvancePaymentService) *AdvancePaymentHandler {
	return &AdvancePaymentHandler{advanceService: advanceService}
}

// RegisterRoutes registers advance payment routes
func (h *AdvancePaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	advances := rg.Group("/advance-payments")
	{
		advances.POST("", h.Create)
		advances.GET("", h.List)
		advances.GET("/:id", h.Get)
		advances.POST("/:id/refund", h.Refund)
		advances.POST("/:id/transfer", h.Transfer)
	}
	rg.POST("/leases/:leaseId/allocate", h.Allocate)
}

// Create registers a manual advance payment and sweeps pending obligations
func (h *AdvancePaymentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req leasingapp.CreateAdvancePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	advance, err := h.advanceService.CreateAdvancePayment(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, advance)
}

// Get returns a single advance payment
func (h *AdvancePaymentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	advanceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid advance payment ID")
		return
	}

	advance, err := h.advanceService.GetAdvancePayment(c.Request.Context(), tenantID, advanceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advance)
}

// List returns advance payments matching the filter
func (h *AdvancePaymentHandler) List(c *gin.Context) {
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

	filter := leasing.AdvancePaymentFilter{
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
	if v := c.Query("status"); v != "" {
		status := leasing.AdvanceStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid advance status")
			return
		}
		filter.Status = &status
	}

	page, err := h.advanceService.ListAdvancePayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Refund returns an advance's remaining balance to the renter
func (h *AdvancePaymentHandler) Refund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	advanceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid advance payment ID")
		return
	}

	var req leasingapp.RefundAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.advanceService.RefundAdvancePayment(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Transfer moves an advance's remaining balance to another lease
func (h *AdvancePaymentHandler) Transfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	advanceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid advance payment ID")
		return
	}

	var req leasingapp.TransferAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transferred, err := h.advanceService.TransferAdvance(c.Request.Context(), tenantID, advanceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transferred)
}

// Allocate runs an allocation sweep over the lease's pending obligations
func (h *AdvancePaymentHandler) Allocate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	leaseID, err := parseUUIDParam(c, "leaseId")
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	summary, err := h.advanceService.ApplyAdvancesToPendingObligations(c.Request.Context(), tenantID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
