package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/middleware"
	"kigalimove/models"
	"kigalimove/services/account"
	"kigalimove/services/application"
	"kigalimove/services/assignment"
	"kigalimove/services/commission"
	"kigalimove/services/order"
	"kigalimove/services/report"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler backs the admin dashboard.
type AdminHandler struct {
	Orders       order.OrderService
	Assignments  assignment.AssignmentService
	Commissions  commission.CommissionService
	Applications application.ApplicationService
	Accounts     account.AccountService
	Workers      workerRepo.WorkerRepository
}

// orderFilter reads the shared list query parameters.
func orderFilter(c *gin.Context) (models.OrderFilter, bool) {
	filter := models.OrderFilter{Search: strings.TrimSpace(c.Query("search"))}
	if s := c.Query("status"); s != "" {
		status, err := models.ParseOrderStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
			return filter, false
		}
		filter.Status = status
	}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.ParseInt(l, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return filter, false
		}
		filter.Limit = n
	}
	return filter, true
}

func adminActor(c *gin.Context) order.Actor {
	return order.Actor{UserID: c.GetString(middleware.CtxUserID), Role: models.RoleAdmin}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	filter.DriverID = c.Query("driver")
	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrder applies a partial edit: status and/or driver fields.
func (h *AdminHandler) UpdateOrder(c *gin.Context) {
	var upd models.OrderUpdate
	if !bindJSON(c, &upd) {
		return
	}
	o, err := h.Orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), upd, adminActor(c))
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// OrdersReport downloads the filtered order list as a spreadsheet.
func (h *AdminHandler) OrdersReport(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}
	buf, err := report.OrdersWorkbook(orders)
	if err != nil {
		respondError(c, err, "Failed to build report")
		return
	}
	filename := "orders_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) ListApplications(c *gin.Context) {
	status := models.ApplicationStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown application status"})
		return
	}
	apps, err := h.Applications.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "Failed to fetch applications")
		return
	}
	type withDocument struct {
		models.JobApplication
		DocumentURL string `json:"documentUrl,omitempty"`
	}
	out := make([]withDocument, 0, len(apps))
	for i := range apps {
		out = append(out, withDocument{JobApplication: apps[i], DocumentURL: h.Applications.DocumentURL(&apps[i])})
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

func (h *AdminHandler) ApproveApplication(c *gin.Context) {
	res, err := h.Applications.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to approve application")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) RejectApplication(c *gin.Context) {
	app, err := h.Applications.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to reject application")
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *AdminHandler) ListWorkers(c *gin.Context) {
	workerType := models.WorkerType(c.Query("type"))
	if workerType != "" && !workerType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown worker type"})
		return
	}
	workers, err := h.Workers.List(c.Request.Context(), workerType, c.Query("available") == "true")
	if err != nil {
		respondError(c, err, "Failed to fetch workers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// CreateWorker adds a worker profile without a login, e.g. a key courier.
func (h *AdminHandler) CreateWorker(c *gin.Context) {
	var req struct {
		Name  string            `json:"name"`
		Phone string            `json:"phone"`
		Type  models.WorkerType `json:"type"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and phone are required"})
		return
	}
	if !req.Type.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown worker type"})
		return
	}
	now := time.Now()
	w := &models.Worker{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Type:      req.Type,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Workers.Create(c.Request.Context(), w); err != nil {
		respondError(c, err, "Failed to create worker")
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *AdminHandler) SetWorkerAvailability(c *gin.Context) {
	var req struct {
		Available bool `json:"available"`
	}
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.Workers.SetAvailability(c.Request.Context(), c.Param("id"), req.Available)
	if err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
			return
		}
		respondError(c, err, "Failed to update worker")
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *AdminHandler) ListOrderAssignments(c *gin.Context) {
	list, err := h.Assignments.ListForOrder(c.Request.Context(), strings.ToUpper(c.Param("id")))
	if err != nil {
		respondError(c, err, "Failed to fetch assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list})
}

// ListAssignments lists job assignments across orders, filtered by ?status=.
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	status := models.AssignmentStatus(c.DefaultQuery("status", string(models.AssignmentPending)))
	list, err := h.Assignments.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "Failed to fetch assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list})
}

// OfferAssignment sends a job offer for one assignment to one worker.
func (h *AdminHandler) OfferAssignment(c *gin.Context) {
	var req struct {
		WorkerID string `json:"workerId"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.WorkerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workerId is required"})
		return
	}
	n, err := h.Assignments.Offer(c.Request.Context(), c.Param("id"), req.WorkerID)
	if err != nil {
		respondError(c, err, "Failed to send job offer")
		return
	}
	getLogger(c).Info("Job offered", zap.String("assignmentId", c.Param("id")), zap.String("workerId", req.WorkerID))
	c.JSON(http.StatusCreated, n)
}

func (h *AdminHandler) ListCommissions(c *gin.Context) {
	status := models.CommissionStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown commission status"})
		return
	}
	list, err := h.Commissions.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "Failed to fetch commissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

func (h *AdminHandler) CommissionsReport(c *gin.Context) {
	list, err := h.Commissions.List(c.Request.Context(), models.CommissionStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to fetch commissions")
		return
	}
	buf, err := report.CommissionsWorkbook(list)
	if err != nil {
		respondError(c, err, "Failed to build report")
		return
	}
	filename := "commissions_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) ApproveCommission(c *gin.Context) {
	res, err := h.Commissions.ApproveCommission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to approve commission")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) RejectCommission(c *gin.Context) {
	res, err := h.Commissions.RejectCommission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to reject commission")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := models.WithdrawalStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown withdrawal status"})
		return
	}
	list, err := h.Commissions.ListWithdrawals(c.Request.Context(), c.Query("agent"), status)
	if err != nil {
		respondError(c, err, "Failed to fetch withdrawals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

func (h *AdminHandler) SetWithdrawalStatus(c *gin.Context) {
	var req struct {
		Status models.WithdrawalStatus `json:"status"`
		Notes  string                  `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.Commissions.SetWithdrawalStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err, "Failed to update withdrawal")
		return
	}
	c.JSON(http.StatusOK, w)
}

// CreateUsers creates a batch of accounts and reports each outcome.
func (h *AdminHandler) CreateUsers(c *gin.Context) {
	var req struct {
		Users []models.NewUser `json:"users"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Users) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No users provided"})
		return
	}
	results := h.Accounts.BatchCreate(c.Request.Context(), req.Users)
	created := 0
	for _, r := range results {
		if r.Success {
			created++
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "created": created, "failed": len(results) - created})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if role != "" && !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}
	users, err := h.Accounts.ListUsers(c.Request.Context(), role)
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
