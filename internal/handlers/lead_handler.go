package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
	"pipecrm/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

func (h *LeadHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 20)

	leads, total, err := h.Service.List(repositories.LeadFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		Source: c.Query("source"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}
	if leads == nil {
		leads = []*models.Lead{}
	}
	c.JSON(http.StatusOK, listEnvelope(leads, total, page, limit))
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	lead, err := h.Service.GetByID(id)
	if err != nil || lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.Create(&lead)
	if err != nil {
		if errors.Is(err, services.ErrLeadNameOrEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name or email required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	created, _ := h.Service.GetByID(int(id))
	c.JSON(http.StatusCreated, created)
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead.ID = id

	ok, err := h.Service.Update(&lead)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(http.StatusOK, updated)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ok, err := h.Service.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type convertLeadRequest struct {
	CreateDeal  *bool   `json:"create_deal"`
	DealTitle   string  `json:"deal_title"`
	Value       float64 `json:"value"`
	Stage       string  `json:"stage"`
	Probability *int    `json:"probability"`
}

// Convert
// @Summary      Конвертировать лид
// @Description  Одной транзакцией создаёт контакт (+компания по имени, +сделка) и помечает лид converted. Повторная конвертация — 409.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path int true "id лида"
// @Param        request body convertLeadRequest false "параметры конвертации"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Failure      409 {object} map[string]any
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	// тело опционально: пустое тело = все значения по умолчанию
	var req convertLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := models.ConvertOptions{
		CreateDeal:  true,
		DealTitle:   req.DealTitle,
		Value:       req.Value,
		Stage:       req.Stage,
		Probability: services.DefaultConvertProbability,
	}
	if req.CreateDeal != nil {
		opts.CreateDeal = *req.CreateDeal
	}
	if req.Probability != nil {
		opts.Probability = *req.Probability
	}

	result, err := h.Service.Convert(id, opts)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeadNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		case errors.Is(err, services.ErrLeadAlreadyConverted):
			c.JSON(http.StatusConflict, gin.H{"error": "lead already converted"})
		case errors.Is(err, services.ErrInvalidStage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"contact_id": result.ContactID,
		"company_id": result.CompanyID,
		"deal_id":    result.DealID,
	})
}
