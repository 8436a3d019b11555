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

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

func (h *ActivityHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c, 50)
	contactID, _ := strconv.Atoi(c.Query("contact_id"))
	dealID, _ := strconv.Atoi(c.Query("deal_id"))

	activities, total, err := h.Service.List(repositories.ActivityFilter{
		ContactID: contactID,
		DealID:    dealID,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		Order:     c.DefaultQuery("order", "desc"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	c.JSON(http.StatusOK, listEnvelope(activities, total, page, limit))
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Service.Create(&activity)
	if err != nil {
		if errors.Is(err, services.ErrActivityTypeRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ActivityHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var activity models.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	activity.ID = id

	ok, err := h.Service.Update(&activity)
	if err != nil {
		if errors.Is(err, services.ErrActivityTypeRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type required"})
			return
		}
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

func (h *ActivityHandler) Delete(c *gin.Context) {
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
