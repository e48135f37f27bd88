package handlers

import (
	"net/http"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/internal/models"
	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ExitIntentHandler struct {
	service services.ExitIntentServiceInterface
}

func NewExitIntentHandler(service services.ExitIntentServiceInterface) *ExitIntentHandler {
	return &ExitIntentHandler{service: service}
}

// Decide handles POST /api/v1/exit-intent/decide
func (h *ExitIntentHandler) Decide(c *gin.Context) {
	var req models.ExitIntentDecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	window, navigator := deviceHints(c.Request, &req)
	decision := h.service.Decide(c.Request.Context(), services.DecideRequest{
		VisitorID: req.VisitorID,
		Frequency: exitintent.Frequency(req.Frequency),
		Path:      req.Path,
		Window:    window,
		Navigator: navigator,
	})

	c.JSON(http.StatusOK, models.ExitIntentDecideResponse{
		Show:       decision.Show,
		Reason:     decision.Reason,
		CooldownMs: decision.CooldownMs,
		VisitorID:  decision.VisitorID,
	})
}

// MarkShown handles POST /api/v1/exit-intent/shown
func (h *ExitIntentHandler) MarkShown(c *gin.Context) {
	var req models.ExitIntentShownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	stored := h.service.MarkShown(c.Request.Context(), req.VisitorID, exitintent.Frequency(req.Frequency), 0)
	c.JSON(http.StatusOK, models.ExitIntentShownResponse{Stored: stored})
}

// deviceHints prefers the capabilities the page reported and falls back to client hint headers
func deviceHints(r *http.Request, req *models.ExitIntentDecideRequest) (*exitintent.Window, *exitintent.Navigator) {
	if req.HasTouchStart == nil && req.MaxTouchPoints == nil {
		return exitintent.DeviceFromRequest(r)
	}

	window := &exitintent.Window{}
	if req.HasTouchStart != nil {
		window.OnTouchStart = *req.HasTouchStart
	}
	navigator := &exitintent.Navigator{}
	if req.MaxTouchPoints != nil {
		navigator.MaxTouchPoints = *req.MaxTouchPoints
	}
	return window, navigator
}
