package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/pdf"
	"pipecrm/internal/services"
)

type ReportHandler struct {
	Service *services.DealService
	PDF     pdf.Generator
}

func NewReportHandler(service *services.DealService, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{Service: service, PDF: generator}
}

// PipelineTotals
// @Summary      Сводка по пайплайну
// @Description  По каждому этапу: количество сделок, сумма и взвешенная сумма (value * probability/100). Опциональные границы по дате создания.
// @Tags         reports
// @Produce      json
// @Param        date_from query string false "created_at >= (включительно)"
// @Param        date_to   query string false "created_at <= (включительно)"
// @Success      200 {object} map[string]any
// @Router       /reports/pipeline_totals [get]
func (h *ReportHandler) PipelineTotals(c *gin.Context) {
	totals, err := h.Service.PipelineTotals(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	if totals == nil {
		totals = []models.StageTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (h *ReportHandler) PipelineTotalsPDF(c *gin.Context) {
	totals, err := h.Service.PipelineTotals(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="pipeline_report.pdf"`)
	if err := h.PDF.PipelineReport(totals, time.Now(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
}
