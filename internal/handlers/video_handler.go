package handlers

import (
	"net/http"

	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/firmtemplate/firm-api/internal/video"
	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	service services.VideoServiceInterface
}

func NewVideoHandler(service services.VideoServiceInterface) *VideoHandler {
	return &VideoHandler{service: service}
}

// Resolve handles POST /api/v1/video/resolve
func (h *VideoHandler) Resolve(c *gin.Context) {
	var req models.VideoResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	source := h.service.Resolve(c.Request.Context(), video.Input{
		Provider: req.Provider,
		VideoID:  req.VideoID,
		Src:      req.Src,
	})

	status := http.StatusOK
	if source.Status == video.StatusError {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, source)
}
