package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/rentfolio/backend/internal/application/ledger"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/interfaces/http/dto"
	"github.com/rentfolio/backend/internal/interfaces/http/middleware"
)

// LedgerHandler handles accounting log endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/ledger/entries")
	{
		entries.POST("", h.RecordEntry)
		entries.GET("", h.ListEntries)
		entries.GET("/:id", h.GetEntry)
		entries.PUT("/:id", h.UpdateEntry)
		entries.DELETE("/:id", h.DeleteEntry)
	}
	ledgerGroup := rg.Group("/ledger")
	{
		ledgerGroup.POST("/recalculate", h.Recalculate)
		ledgerGroup.GET("/statistics", h.Statistics)
		ledgerGroup.GET("/export", h.ExportCSV)
	}
}

// parseScope reads the optional property_id and owner_id query parameters
func parseScope(c *gin.Context) (ledger.Scope, error) {
	var scope ledger.Scope
	if v := c.Query("property_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return scope, fmt.Errorf("invalid property_id: %w", err)
		}
		scope.PropertyID = &id
	}
	if v := c.Query("owner_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return scope, fmt.Errorf("invalid owner_id: %w", err)
		}
		scope.OwnerID = &id
	}
	return scope, nil
}

// RecordEntry records a new ledger entry
func (h *LedgerHandler) RecordEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req ledgerapp.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.ledgerService.RecordEntry(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetEntry returns a single ledger entry
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// ListEntries returns entries matching the filter, newest first
func (h *LedgerHandler) ListEntries(c *gin.Context) {
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

	scope, err := parseScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := ledger.EntryFilter{
		Filter: shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize},
		Scope:  scope,
	}
	if v := c.Query("entry_type"); v != "" {
		entryType := ledger.EntryType(v)
		if !entryType.IsValid() {
			h.BadRequest(c, "Invalid entry type")
			return
		}
		filter.Type = &entryType
	}
	if v := c.Query("category"); v != "" {
		category := ledger.Category(v)
		if !category.IsValid() {
			h.BadRequest(c, "Invalid category")
			return
		}
		filter.Category = &category
	}
	if from, to, err := parsePeriod(c); err != nil {
		h.BadRequest(c, err.Error())
		return
	} else {
		filter.DateFrom = from
		filter.DateTo = to
	}

	page, err := h.ledgerService.ListEntries(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateEntry edits a ledger entry and rebuilds the scope's balances
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req ledgerapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), tenantID, entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteEntry removes a ledger entry and rebuilds the scope's balances
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), tenantID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Recalculate rebuilds cached running balances for a scope, or for every
// scope of the tenant when no scope is given
func (h *LedgerHandler) Recalculate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	scope, err := parseScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.ledgerService.RecalculateRunningBalances(c.Request.Context(), tenantID, scope); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"recalculated": true})
}

// Statistics summarizes ledger activity for a scope
func (h *LedgerHandler) Statistics(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	scope, err := parseScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.ledgerService.Statistics(c.Request.Context(), tenantID, scope, ledgerapp.Period{From: from, To: to})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ExportCSV streams the scope's entries as a CSV attachment
func (h *LedgerHandler) ExportCSV(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	scope, err := parseScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data, err := h.ledgerService.ExportCSV(c.Request.Context(), tenantID, scope, ledgerapp.Period{From: from, To: to})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// parsePeriod parses optional from/to date query parameters
func parsePeriod(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date: %w", err)
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date: %w", err)
		}
		to = &parsed
	}
	return from, to, nil
}
