package utils

import (
	"errors"
	"net/http"

	"kigalimove/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

// HandleErrors is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ValidationFailed renders a field error as 400 and reports whether err was one.
func ValidationFailed(c *gin.Context, err error) bool {
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: vErr.Message, Field: vErr.Field})
	return true
}
