package handlers

import (
	"net/http"
	"strings"

	"kigalimove/models"
	"kigalimove/services/order"
	"kigalimove/services/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderHandler serves the public booking and tracking endpoints.
type OrderHandler struct {
	Orders  order.OrderService
	BaseURL string
}

func NewOrderHandler(orders order.OrderService, baseURL string) *OrderHandler {
	return &OrderHandler{Orders: orders, BaseURL: baseURL}
}

// SubmitOrder places an order from the public booking form. Referral is
// only credited through the agent dashboard.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var form models.OrderForm
	if !bindJSON(c, &form) {
		return
	}
	form.AgentID = ""

	o, err := h.Orders.SubmitOrder(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Failed to submit order. Please try again.")
		return
	}
	getLogger(c).Info("Order submitted", zap.String("orderId", o.ID), zap.Int64("total", o.TotalCost))
	c.JSON(http.StatusCreated, gin.H{
		"order":       o,
		"trackingUrl": report.TrackingURL(h.BaseURL, o.ID),
	})
}

// QuoteOrder prices a form without saving it.
func (h *OrderHandler) QuoteOrder(c *gin.Context) {
	var form models.OrderForm
	if !bindJSON(c, &form) {
		return
	}
	q, err := h.Orders.Quote(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Failed to calculate price")
		return
	}
	c.JSON(http.StatusOK, q)
}

// TrackOrder looks an order up by its tracking code.
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, o)
}

// TrackingQR returns a PNG QR code pointing at the tracking page.
func (h *OrderHandler) TrackingQR(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load order")
		return
	}
	png, err := report.TrackingQR(h.BaseURL, o.ID)
	if err != nil {
		respondError(c, err, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// CalculateDistance estimates the kilometres between two addresses.
func (h *OrderHandler) CalculateDistance(c *gin.Context) {
	var req struct {
		Pickup   string `json:"pickup"`
		Delivery string `json:"delivery"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Pickup) == "" || strings.TrimSpace(req.Delivery) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both pickup and delivery addresses are required"})
		return
	}
	c.JSON(http.StatusOK, h.Orders.CalculateDistance(c.Request.Context(), req.Pickup, req.Delivery))
}
