package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/dto"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tlrefHandler handles the maintenance endpoints of the TLREF series.
type tlrefHandler struct {
	reconciler portssvc.ReconcilerSvcFacade
	ledger     portssvc.LedgerMaintenanceSvcFacade
}

func newTlrefHandler(reconciler portssvc.ReconcilerSvcFacade, ledger portssvc.LedgerMaintenanceSvcFacade) *tlrefHandler {
	return &tlrefHandler{reconciler: reconciler, ledger: ledger}
}

// registerTlrefRoutes registers the TLREF maintenance routes.
func registerTlrefRoutes(rg *gin.RouterGroup, reconciler portssvc.ReconcilerSvcFacade, ledger portssvc.LedgerMaintenanceSvcFacade) {
	h := newTlrefHandler(reconciler, ledger)

	tlref := rg.Group("/tlref")
	{
		tlref.GET("/durum", h.status)
		tlref.POST("/guncelle", h.runUpdate)
		tlref.POST("/tatil-doldur", h.holidayFill)
	}
}

// status reports the series size and the ledger coverage.
func (h *tlrefHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	report, err := h.reconciler.Status(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build status report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build status report"})
		return
	}
	c.JSON(http.StatusOK, dto.ToStatusResponse(report))
}

// runUpdate triggers a reconciliation run and returns its report.
func (h *tlrefHandler) runUpdate(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for run request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	if err := req.Validate(); err != nil {
		logger.Warn("Invalid run request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reconciler.Run(c.Request.Context(), req.ToRunOptions())
	if err != nil {
		logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// holidayFill fills null-rate ledger rows from the ledger's own prior values.
func (h *tlrefHandler) holidayFill(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	result, err := h.ledger.HolidayFill(c.Request.Context())
	if err != nil {
		logger.Error("Holiday fill failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Holiday fill failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
