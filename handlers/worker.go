package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/middleware"
	"kigalimove/models"
	"kigalimove/services/assignment"
	"kigalimove/services/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkerHandler backs the driver, helper and cleaner dashboard.
type WorkerHandler struct {
	Assignments assignment.AssignmentService
	Orders      order.OrderService
	Workers     workerRepo.WorkerRepository
}

// workerID returns the caller's worker profile id or answers 403.
func workerID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.CtxWorkerID)
	if id == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "No worker profile is linked to this account"})
		return "", false
	}
	return id, true
}

func (h *WorkerHandler) Profile(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	w, err := h.Workers.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
			return
		}
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkerHandler) SetAvailability(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	var req struct {
		Available bool `json:"available"`
	}
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.Workers.SetAvailability(c.Request.Context(), id, req.Available)
	if err != nil {
		respondError(c, err, "Failed to update availability")
		return
	}
	c.JSON(http.StatusOK, w)
}

// RegisterDevice stores the FCM token used for job offer pushes.
func (h *WorkerHandler) RegisterDevice(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	var req struct {
		FCMToken string `json:"fcmToken"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.FCMToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fcmToken is required"})
		return
	}
	if err := h.Workers.SetFCMToken(c.Request.Context(), id, strings.TrimSpace(req.FCMToken)); err != nil {
		respondError(c, err, "Failed to register device")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}

func (h *WorkerHandler) MyJobs(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	list, err := h.Assignments.ListForWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

func (h *WorkerHandler) Offers(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	list, err := h.Assignments.ListOffers(c.Request.Context(), id, time.Now())
	if err != nil {
		respondError(c, err, "Failed to fetch job offers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": list})
}

type jobAction func(ctx context.Context, assignmentID, workerID string) (*models.JobAssignment, error)

func (h *WorkerHandler) runJobAction(c *gin.Context, action jobAction, failure string) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	a, err := action(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		respondError(c, err, failure)
		return
	}
	getLogger(c).Info("Job updated", zap.String("assignmentId", a.ID), zap.String("status", string(a.Status)))
	c.JSON(http.StatusOK, a)
}

func (h *WorkerHandler) AcceptJob(c *gin.Context) {
	h.runJobAction(c, h.Assignments.AcceptJob, "Failed to accept job")
}

func (h *WorkerHandler) StartJob(c *gin.Context) {
	h.runJobAction(c, h.Assignments.StartJob, "Failed to start job")
}

func (h *WorkerHandler) CompleteJob(c *gin.Context) {
	h.runJobAction(c, h.Assignments.CompleteJob, "Failed to complete job")
}

func (h *WorkerHandler) DeclineJob(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	if err := h.Assignments.DeclineJob(c.Request.Context(), c.Param("id"), id); err != nil {
		respondError(c, err, "Failed to decline job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job declined"})
}

func (h *WorkerHandler) DismissNotification(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	if err := h.Assignments.DismissNotification(c.Request.Context(), c.Param("id"), id); err != nil {
		respondError(c, err, "Failed to dismiss notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}

// MyOrders lists orders whose transport is assigned to the calling driver.
func (h *WorkerHandler) MyOrders(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	filter, ok := orderFilter(c)
	if !ok {
		return
	}
	filter.DriverID = id
	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatus advances an assigned order: assigned → in-progress → completed.
// An empty status moves the order one step along that path.
func (h *WorkerHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" {
		current, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err, "Failed to update order")
			return
		}
		next, ok := order.NextDriverStatus(current.Status)
		if !ok {
			respondError(c, order.ErrTransitionNotAllowed, "Failed to update order")
			return
		}
		req.Status = next
	}
	actor := order.Actor{
		UserID:   c.GetString(middleware.CtxUserID),
		Role:     models.Role(c.GetString(middleware.CtxRole)),
		WorkerID: id,
	}
	o, err := h.Orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), models.OrderUpdate{Status: &req.Status}, actor)
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, o)
}

// ReleaseOrder hands an assigned order back before the move starts.
func (h *WorkerHandler) ReleaseOrder(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	o, err := h.Orders.ReleaseOrder(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		respondError(c, err, "Failed to release order")
		return
	}
	c.JSON(http.StatusOK, o)
}
