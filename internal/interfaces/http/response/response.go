package response

import (
	"github.com/gin-gonic/gin"

	domainerrors "civic-connect.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping domain errors to status codes
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	c.JSON(appErr.Code, gin.H{
		"success": false,
		"message": appErr.Message,
		"error":   appErr.Message,
	})
}

// ErrorWithStatus sends an error response with an explicit status
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   message,
	})
}
