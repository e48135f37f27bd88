package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/firmtemplate/firm-api/internal/middleware"
)

// attachError records err on the gin context for the request log.
// c.Error returns *gin.Error, not error, hence the errcheck suppression.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// errorBody echoes the request id so a visitor can quote it when emailing the firm
func errorBody(c *gin.Context, message string) gin.H {
	body := gin.H{"error": message}
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		body["requestId"] = id
	}
	return body
}

func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, errorBody(c, message))
}

// respondErrorWithDetails adds field-level details, usually from ParseValidationErrors
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	body := errorBody(c, message)
	body["details"] = details
	c.JSON(status, body)
}
