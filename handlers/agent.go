package handlers

import (
	"net/http"

	"kigalimove/middleware"
	"kigalimove/models"
	"kigalimove/services/commission"
	"kigalimove/services/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AgentHandler backs the agent dashboard. Every query is scoped to the caller.
type AgentHandler struct {
	Orders      order.OrderService
	Commissions commission.CommissionService
	// Withdraw performs the payout request; nil records a processing request.
	Withdraw commission.WithdrawalHandler
}

func (h *AgentHandler) MyCommissions(c *gin.Context) {
	list, err := h.Commissions.ListForAgent(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		respondError(c, err, "Failed to fetch commissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

func (h *AgentHandler) Balance(c *gin.Context) {
	balance, err := h.Commissions.Balance(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		respondError(c, err, "Failed to load balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": balance})
}

func (h *AgentHandler) RequestWithdrawal(c *gin.Context) {
	var req struct {
		Amount      int64  `json:"amount"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if !bindJSON(c, &req) {
		return
	}
	agentID := c.GetString(middleware.CtxUserID)
	w, err := h.Commissions.RequestWithdrawal(c.Request.Context(), agentID, req.Amount, req.PhoneNumber, h.Withdraw)
	if err != nil {
		respondError(c, err, "Failed to submit withdrawal request. Please try again.")
		return
	}
	getLogger(c).Info("Withdrawal requested", zap.String("agentId", agentID), zap.Int64("amount", req.Amount))
	c.JSON(http.StatusCreated, w)
}

func (h *AgentHandler) MyWithdrawals(c *gin.Context) {
	list, err := h.Commissions.ListWithdrawals(c.Request.Context(), c.GetString(middleware.CtxUserID), "")
	if err != nil {
		respondError(c, err, "Failed to fetch withdrawals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// MyOrders lists orders referred by the caller.
func (h *AgentHandler) MyOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	filter.AgentID = c.GetString(middleware.CtxUserID)
	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// SubmitOrder places an order on behalf of a customer, credited to the caller.
func (h *AgentHandler) SubmitOrder(c *gin.Context) {
	var form models.OrderForm
	if !bindJSON(c, &form) {
		return
	}
	form.AgentID = c.GetString(middleware.CtxUserID)

	o, err := h.Orders.SubmitOrder(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Failed to submit order. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, o)
}
