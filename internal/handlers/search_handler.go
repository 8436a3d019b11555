package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/services"
)

type SearchHandler struct {
	Service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{Service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.Service.Search(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}
