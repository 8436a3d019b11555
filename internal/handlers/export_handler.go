package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/services"
)

type ExportHandler struct {
	Service *services.ExportService
}

func NewExportHandler(service *services.ExportService) *ExportHandler {
	return &ExportHandler{Service: service}
}

func (h *ExportHandler) Export(c *gin.Context) {
	entity := c.Param("entity")

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, entity))
	if err := h.Service.ExportCSV(entity, c.Writer); err != nil {
		if errors.Is(err, services.ErrUnknownEntity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
}

func (h *ExportHandler) Import(c *gin.Context) {
	entity := c.Param("entity")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	inserted, err := h.Service.ImportCSV(entity, f)
	if err != nil {
		if errors.Is(err, services.ErrUnknownEntity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed", "inserted": inserted})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}
