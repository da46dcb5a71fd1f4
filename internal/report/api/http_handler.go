package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paleteria/paleteria-pos/internal/platform/httpx"
	"github.com/paleteria/paleteria-pos/internal/report/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(rs service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reportRoutes := router.Group("/reports")
	{
		reportRoutes.GET("/daily", h.DailyCut)
		reportRoutes.GET("/range", h.RangeAnalysis)
		reportRoutes.GET("/inventory", h.InventorySummary)
	}
}

func (h *ReportHandler) DailyCut(c *gin.Context) {
	ctx := c.Request.Context()
	date := c.Query("date")

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := h.reportService.ExportDailyCutCSV(ctx, date, &buf); err != nil {
			httpx.RespondError(c, "DailyCut", err, "Failed to export daily cut")
			return
		}
		name := "corte"
		if date != "" {
			name += "_" + date
		}
		httpx.Attachment(c, name+".csv", "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	cut, err := h.reportService.DailyCut(ctx, date)
	if err != nil {
		httpx.RespondError(c, "DailyCut", err, "Failed to compute daily cut")
		return
	}
	c.JSON(http.StatusOK, cut)
}

func (h *ReportHandler) RangeAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	from, to := c.Query("from"), c.Query("to")

	if c.Query("format") == "xlsx" {
		var buf bytes.Buffer
		if err := h.reportService.ExportRangeXLSX(ctx, from, to, &buf); err != nil {
			httpx.RespondError(c, "RangeAnalysis", err, "Failed to export range analysis")
			return
		}
		httpx.Attachment(c, "ventas_"+from+"_"+to+".xlsx", xlsxContentType, buf.Bytes())
		return
	}

	analysis, err := h.reportService.RangeAnalysis(ctx, from, to)
	if err != nil {
		httpx.RespondError(c, "RangeAnalysis", err, "Failed to compute range analysis")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *ReportHandler) InventorySummary(c *gin.Context) {
	summary, err := h.reportService.InventorySummary(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, "InventorySummary", err, "Failed to summarise inventory")
		return
	}
	c.JSON(http.StatusOK, summary)
}
