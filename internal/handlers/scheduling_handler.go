package handlers

import (
	"net/http"

	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/gin-gonic/gin"
)

type SchedulingHandler struct {
	service services.SchedulingServiceInterface
}

func NewSchedulingHandler(service services.SchedulingServiceInterface) *SchedulingHandler {
	return &SchedulingHandler{service: service}
}

// GetScheduling handles GET /api/v1/scheduling.
// A misconfigured provider is reported in the body with status "error", not as an HTTP failure.
func (h *SchedulingHandler) GetScheduling(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Current())
}
