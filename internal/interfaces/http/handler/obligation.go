package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leasingapp "github.com/rentfolio/backend/internal/application/leasing"
	"github.com/rentfolio/backend/internal/domain/leasing"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/interfaces/http/dto"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
)

// ObligationHandler handles payment obligation endpoints
type ObligationHandler struct {
	BaseHandler
	obligationService *leasingapp.ObligationService
}

// NewObligationHandler creates a new ObligationHandler
func NewObligationHandler(obligationService *leasingapp.ObligationService) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService}
}

// RegisterRoutes registers obligation routes
func (h *ObligationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	obligations := rg.Group("/obligations")
	{
		obligations.POST("", h.Create)
		obligations.GET("", h.List)
		obligations.GET("/:id", h.Get)
		obligations.POST("/mark-overdue", h.MarkOverdue)
	}
}

// Create schedules a new obligation
func (h *ObligationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req leasingapp.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	obligation, err := h.obligationService.CreateObligation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, obligation)
}

// Get returns a single obligation
func (h *ObligationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	obligationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID")
		return
	}

	obligation, err := h.obligationService.GetObligation(c.Request.Context(), tenantID, obligationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, obligation)
}

// List returns obligations matching the filter
func (h *ObligationHandler) List(c *gin.Context) {
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

	filter := leasing.ObligationFilter{
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
		status := leasing.ObligationStatus(v)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid obligation status")
			return
		}
		filter.Status = &status
	}
	if v := c.Query("type"); v != "" {
		obligationType := leasing.ObligationType(v)
		if !obligationType.IsValid() {
			h.BadRequest(c, "Invalid obligation type")
			return
		}
		filter.Type = &obligationType
	}

	page, err := h.obligationService.ListObligations(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// MarkOverdue flips unpaid obligations past their due date to OVERDUE
func (h *ObligationHandler) MarkOverdue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	marked, err := h.obligationService.MarkOverdueObligations(c.Request.Context(), tenantID, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"marked": marked})
}
