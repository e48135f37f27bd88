package handlers

import (
	"net/http"

	"github.com/firmtemplate/firm-api/internal/contact"
	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var data contact.FormData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	resp := h.service.Submit(c.Request.Context(), data, c.ClientIP())
	c.JSON(contactStatus(resp), resp)
}

// Validate handles POST /api/v1/contact/validate. Nothing is submitted.
func (h *ContactHandler) Validate(c *gin.Context) {
	var data contact.FormData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	result := h.service.Validate(data)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func contactStatus(resp *models.ContactResponse) int {
	if resp.Success {
		return http.StatusOK
	}

	switch resp.Message {
	case services.MsgContactRateLimited:
		return http.StatusTooManyRequests
	case services.MsgContactFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
