package handlers

import (
	"errors"
	"net/http"

	"kigalimove/services/application"
	"kigalimove/services/assignment"
	"kigalimove/services/commission"
	"kigalimove/services/order"
	"kigalimove/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError renders err with the status its sentinel implies. Anything
// unrecognised is logged and answered with the generic failure message.
func respondError(c *gin.Context, err error, failure string) {
	if utils.ValidationFailed(c, err) {
		return
	}
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, assignment.ErrAssignmentNotFound),
		errors.Is(err, assignment.ErrWorkerNotFound),
		errors.Is(err, commission.ErrNotFound),
		errors.Is(err, application.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assignment.ErrAlreadyTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "This job has already been taken by another worker"})
	case errors.Is(err, order.ErrTransitionNotAllowed),
		errors.Is(err, assignment.ErrNotAllowed),
		errors.Is(err, commission.ErrNotAllowed),
		errors.Is(err, application.ErrApplicationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, assignment.ErrWorkerMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error(failure, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// bindJSON decodes the body or answers 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return false
	}
	return true
}
