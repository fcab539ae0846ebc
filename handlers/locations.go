package handlers

import (
	"net/http"

	"kigalimove/models"
	"kigalimove/services/location"

	"github.com/gin-gonic/gin"
)

// LocationHandler serves the cascading address dropdowns.
type LocationHandler struct {
	Locations location.LocationService
}

func NewLocationHandler(svc location.LocationService) *LocationHandler {
	return &LocationHandler{Locations: svc}
}

func (h *LocationHandler) respond(c *gin.Context, res *models.LevelResult, err error) {
	if err != nil {
		respondError(c, err, "Failed to load locations")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LocationHandler) Provinces(c *gin.Context) {
	res, err := h.Locations.Provinces(c.Request.Context())
	h.respond(c, res, err)
}

func (h *LocationHandler) Districts(c *gin.Context) {
	res, err := h.Locations.Districts(c.Request.Context(), c.Query("province"))
	h.respond(c, res, err)
}

func (h *LocationHandler) Sectors(c *gin.Context) {
	res, err := h.Locations.Sectors(c.Request.Context(), c.Query("province"), c.Query("district"))
	h.respond(c, res, err)
}

func (h *LocationHandler) Cells(c *gin.Context) {
	res, err := h.Locations.Cells(c.Request.Context(), c.Query("province"), c.Query("district"), c.Query("sector"))
	h.respond(c, res, err)
}

func (h *LocationHandler) Villages(c *gin.Context) {
	res, err := h.Locations.Villages(c.Request.Context(),
		c.Query("province"), c.Query("district"), c.Query("sector"), c.Query("cell"))
	h.respond(c, res, err)
}
