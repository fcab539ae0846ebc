package handlers

import (
	"net/http"
	"strings"

	"kigalimove/models"
	"kigalimove/services/application"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxDocumentSize = 5 << 20

// ApplicationHandler accepts public job applications.
type ApplicationHandler struct {
	Applications application.ApplicationService
}

func NewApplicationHandler(svc application.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: svc}
}

// SubmitApplication takes either JSON or a multipart form with an optional "document" file.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var form models.ApplicationForm
	var doc *application.Document

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if fileHeader, err := c.FormFile("document"); err == nil {
			if fileHeader.Size > maxDocumentSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Document must be 5 MB or smaller"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read document"})
				return
			}
			defer file.Close()
			doc = &application.Document{Reader: file, Filename: fileHeader.Filename}
		}
	} else if !bindJSON(c, &form) {
		return
	}

	app, err := h.Applications.Submit(c.Request.Context(), form, doc)
	if err != nil {
		respondError(c, err, "Failed to submit application. Please try again.")
		return
	}
	getLogger(c).Info("Application submitted", zap.String("applicationId", app.ID))
	c.JSON(http.StatusCreated, app)
}
