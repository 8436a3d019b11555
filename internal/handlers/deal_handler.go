package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
	"pipecrm/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

func (h *DealHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 20)
	companyID, _ := strconv.Atoi(c.Query("company_id"))
	contactID, _ := strconv.Atoi(c.Query("contact_id"))

	deals, total, err := h.Service.List(repositories.DealFilter{
		Stage:     c.Query("stage"),
		CompanyID: companyID,
		ContactID: contactID,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		Order:     c.DefaultQuery("order", "desc"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deals"})
		return
	}
	if deals == nil {
		deals = []*models.Deal{}
	}
	c.JSON(http.StatusOK, listEnvelope(deals, total, page, limit))
}

func (h *DealHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Create(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Service.Create(&deal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		case errors.Is(err, services.ErrInvalidStage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	created, _ := h.Service.GetByID(int(id))
	c.JSON(http.StatusCreated, created)
}

func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal.ID = id

	ok, err := h.Service.Update(&deal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		case errors.Is(err, services.ErrInvalidStage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(http.StatusOK, updated)
}

func (h *DealHandler) Delete(c *gin.Context) {
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

type reorderRequest struct {
	Stage string `json:"stage"`
	IDs   *[]int `json:"ids"`
}

// Reorder
// @Summary      Переставить сделки этапа
// @Description  Применяет порядок ids к этапу: i-й id получает позицию i+1 и сам этап (перенос между этапами включительно). Атомарно.
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        request body reorderRequest true "этап и упорядоченные id"
// @Success      200 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Failure      500 {object} map[string]any
// @Router       /deals/reorder [post]
func (h *DealHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stage and ids[] required"})
		return
	}
	// и stage, и ids обязательны до открытия транзакции
	if req.Stage == "" || req.IDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stage and ids[] required"})
		return
	}

	if err := h.Service.Reorder(req.Stage, *req.IDs); err != nil {
		if errors.Is(err, services.ErrInvalidStage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reorder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
