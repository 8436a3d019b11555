package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pipecrm/internal/models"
	"pipecrm/internal/services"
)

type AttachmentHandler struct {
	Service *services.AttachmentService
}

func NewAttachmentHandler(service *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{Service: service}
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	entityType := c.PostForm("entity_type")
	entityID, err := strconv.Atoi(c.PostForm("entity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id required"})
		return
	}

	attachment := &models.Attachment{
		Filename:     h.Service.StoredName(fileHeader.Filename),
		OriginalName: fileHeader.Filename,
		Mime:         fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		EntityType:   entityType,
		EntityID:     entityID,
		CreatedBy:    c.PostForm("created_by"),
	}

	if err := h.Service.EnsureRoot(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	if err := c.SaveUploadedFile(fileHeader, h.Service.FilePath(attachment)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	created, err := h.Service.Create(attachment)
	if err != nil {
		if errors.Is(err, services.ErrBadEntityType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AttachmentHandler) List(c *gin.Context) {
	entityID, err := strconv.Atoi(c.Query("entity_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id required"})
		return
	}

	attachments, err := h.Service.ListByEntity(c.Query("entity_type"), entityID)
	if err != nil {
		if errors.Is(err, services.ErrBadEntityType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attachments"})
		return
	}
	if attachments == nil {
		attachments = []*models.Attachment{}
	}
	c.JSON(http.StatusOK, gin.H{"data": attachments})
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	attachment, err := h.Service.GetByID(id)
	if err != nil || attachment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.FileAttachment(h.Service.FilePath(attachment), attachment.OriginalName)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
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
