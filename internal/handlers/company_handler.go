package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/services"
)

type CompanyHandler struct {
	Service *services.CompanyService
}

func NewCompanyHandler(service *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Service: service}
}

func (h *CompanyHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 50)

	companies, total, err := h.Service.ListPaginated(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companies"})
		return
	}
	if companies == nil {
		companies = []*models.Company{}
	}
	c.JSON(http.StatusOK, listEnvelope(companies, total, page, limit))
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.Service.Create(body.Name)
	if err != nil {
		if errors.Is(err, services.ErrCompanyNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, company)
}
