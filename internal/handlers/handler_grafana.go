package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/domain"
	portssvc "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/dto"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Series names the Grafana JSON datasource can query.
const (
	targetOran        = "tlref_oran"
	targetYuzde       = "tlref_yuzde"
	targetFaizKazanci = "faiz_kazanci"
)

// grafanaHandler implements the Grafana JSON-datasource endpoints over the
// TLREF series and the reconciled ledger accruals.
type grafanaHandler struct {
	series portssvc.SeriesQuerySvcFacade
}

func newGrafanaHandler(series portssvc.SeriesQuerySvcFacade) *grafanaHandler {
	return &grafanaHandler{series: series}
}

// registerGrafanaRoutes registers the Grafana datasource routes.
func registerGrafanaRoutes(rg *gin.RouterGroup, series portssvc.SeriesQuerySvcFacade) {
	h := newGrafanaHandler(series)

	grafana := rg.Group("/grafana")
	{
		grafana.GET("/health", h.health)
		grafana.POST("/test", h.health)
		grafana.POST("/search", h.search)
		grafana.GET("/query", h.query)
		grafana.POST("/query", h.query)
		grafana.GET("/variable", h.variable)
		grafana.POST("/variable", h.variable)
		grafana.POST("/annotations", h.annotations)
	}
}

func (h *grafanaHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// search returns the queryable target names, filtered by the request's
// target substring when one is given.
func (h *grafanaHandler) search(c *gin.Context) {
	var req dto.GrafanaSearchRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}

	targets := make([]string, 0, 3)
	for _, target := range []string{targetOran, targetYuzde, targetFaizKazanci} {
		if req.Target == "" || strings.Contains(target, strings.ToLower(req.Target)) {
			targets = append(targets, target)
		}
	}
	c.JSON(http.StatusOK, targets)
}

// query serves time series for the requested targets in the requested range.
// Grafana posts {range:{from,to}, targets:[{target}]}; a GET with no body
// defaults to the oran series over the last six months.
func (h *grafanaHandler) query(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	req := dto.GrafanaQueryRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind Grafana query", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query format: " + err.Error()})
			return
		}
	}
	if req.Range.To.IsZero() {
		req.Range.To = time.Now()
	}
	if req.Range.From.IsZero() {
		req.Range.From = req.Range.To.AddDate(0, -6, 0)
	}
	if len(req.Targets) == 0 {
		req.Targets = []dto.GrafanaTarget{{Target: targetOran}}
	}

	response := make([]dto.GrafanaTimeSeries, 0, len(req.Targets))
	for _, target := range req.Targets {
		series, err := h.respond(c, target.Target, req.Range)
		if err != nil {
			logger.Error("Grafana query failed",
				slog.String("target", target.Target),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Query failed for target " + target.Target})
			return
		}
		response = append(response, series)
	}
	c.JSON(http.StatusOK, response)
}

func (h *grafanaHandler) respond(c *gin.Context, target string, rng dto.GrafanaRange) (dto.GrafanaTimeSeries, error) {
	ctx := c.Request.Context()
	series := dto.GrafanaTimeSeries{Target: target, DataPoints: [][2]float64{}}

	if target == targetFaizKazanci {
		values, err := h.series.AccrualsBetween(ctx, rng.From, rng.To)
		if err != nil {
			return series, err
		}
		for _, v := range values {
			series.DataPoints = append(series.DataPoints, [2]float64{v.Value.InexactFloat64(), epochMillis(v.Date)})
		}
		return series, nil
	}

	points, err := h.series.SeriesBetween(ctx, rng.From, rng.To)
	if err != nil {
		return series, err
	}
	for _, rp := range points {
		value := rp.Rate
		if target == targetYuzde {
			value = rp.Percentage
		}
		series.DataPoints = append(series.DataPoints, [2]float64{value.InexactFloat64(), epochMillis(rp.Date)})
	}
	return series, nil
}

// variable serves the dashboard variable values (years present in the series).
func (h *grafanaHandler) variable(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	years, err := h.series.Years(c.Request.Context())
	if err != nil {
		logger.Error("Grafana variable query failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Variable query failed"})
		return
	}

	values := make([]gin.H, 0, len(years))
	for _, y := range years {
		values = append(values, gin.H{"text": y, "value": y})
	}
	c.JSON(http.StatusOK, values)
}

// annotations marks carry-forward dates, so dashboards can tell filled
// values from source values.
func (h *grafanaHandler) annotations(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.GrafanaAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind annotation request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid annotation format: " + err.Error()})
		return
	}
	if req.Range.To.IsZero() {
		req.Range.To = time.Now()
	}
	if req.Range.From.IsZero() {
		req.Range.From = req.Range.To.AddDate(0, -6, 0)
	}

	points, err := h.series.SeriesBetween(c.Request.Context(), req.Range.From, req.Range.To)
	if err != nil {
		logger.Error("Annotation query failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Annotation query failed"})
		return
	}

	annotations := make([]dto.GrafanaAnnotation, 0)
	for _, rp := range points {
		if rp.Provenance != domain.ProvenanceCarryForward {
			continue
		}
		annotations = append(annotations, dto.GrafanaAnnotation{
			Title: "Önceki günden taşındı",
			Text:  rp.DayName + " " + rp.Date.Format("2006-01-02"),
			Time:  rp.Date.UnixMilli(),
			Tags:  []string{"carry-forward"},
		})
	}
	c.JSON(http.StatusOK, annotations)
}

func epochMillis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
