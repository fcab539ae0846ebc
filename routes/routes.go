package routes

import (
	"net/http"
	"time"

	"kigalimove/handlers"
	"kigalimove/middleware"
	"kigalimove/models"
	"kigalimove/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers endpoints that need no session.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/orders", hb.Orders.SubmitOrder)
		api.POST("/orders/quote", hb.Orders.QuoteOrder)
		api.GET("/orders/:id", hb.Orders.TrackOrder)
		api.GET("/orders/:id/qr", hb.Orders.TrackingQR)
		api.POST("/distance", hb.Orders.CalculateDistance)

		api.POST("/applications", hb.Applications.SubmitApplication)
		api.POST("/auth/login", hb.Auth.Login)
	}

	locations := r.Group("/api/locations")
	{
		locations.GET("/provinces", hb.Locations.Provinces)
		locations.GET("/districts", hb.Locations.Districts)
		locations.GET("/sectors", hb.Locations.Sectors)
		locations.GET("/cells", hb.Locations.Cells)
		locations.GET("/villages", hb.Locations.Villages)
	}
}

// RegisterSessionRoutes registers endpoints open to any logged-in role.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.Use(middleware.SessionAuth(hb.Sessions))
		api.GET("/me", hb.Auth.Me)
		api.POST("/logout", hb.Auth.Logout)
	}
}

// RegisterAdminRoutes sets up endpoints for the admin dashboard.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.SessionAuth(hb.Sessions), middleware.RequireRoles(models.RoleAdmin))

		adminGroup.GET("/orders", hb.Admin.ListOrders)
		adminGroup.PATCH("/orders/:id", hb.Admin.UpdateOrder)
		adminGroup.GET("/orders/:id/assignments", hb.Admin.ListOrderAssignments)
		adminGroup.GET("/stats", hb.Admin.Stats)
		adminGroup.GET("/reports/orders", hb.Admin.OrdersReport)
		adminGroup.GET("/reports/commissions", hb.Admin.CommissionsReport)

		adminGroup.GET("/assignments", hb.Admin.ListAssignments)
		adminGroup.POST("/assignments/:id/offer", hb.Admin.OfferAssignment)

		adminGroup.GET("/applications", hb.Admin.ListApplications)
		adminGroup.POST("/applications/:id/approve", hb.Admin.ApproveApplication)
		adminGroup.POST("/applications/:id/reject", hb.Admin.RejectApplication)

		adminGroup.GET("/workers", hb.Admin.ListWorkers)
		adminGroup.POST("/workers", hb.Admin.CreateWorker)
		adminGroup.PATCH("/workers/:id/availability", hb.Admin.SetWorkerAvailability)

		adminGroup.GET("/commissions", hb.Admin.ListCommissions)
		adminGroup.POST("/commissions/:id/approve", hb.Admin.ApproveCommission)
		adminGroup.POST("/commissions/:id/reject", hb.Admin.RejectCommission)

		adminGroup.GET("/withdrawals", hb.Admin.ListWithdrawals)
		adminGroup.PATCH("/withdrawals/:id", hb.Admin.SetWithdrawalStatus)

		adminGroup.GET("/users", hb.Admin.ListUsers)
		adminGroup.POST("/users", hb.Admin.CreateUsers)
	}
}

// RegisterAgentRoutes sets up endpoints for the agent dashboard.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	agentGroup := r.Group("/api/agent")
	{
		agentGroup.Use(middleware.SessionAuth(hb.Sessions), middleware.RequireRoles(models.RoleAgent))
		agentGroup.GET("/orders", hb.Agent.MyOrders)
		agentGroup.POST("/orders", hb.Agent.SubmitOrder)
		agentGroup.GET("/commissions", hb.Agent.MyCommissions)
		agentGroup.GET("/balance", hb.Agent.Balance)
		agentGroup.GET("/withdrawals", hb.Agent.MyWithdrawals)
		agentGroup.POST("/withdrawals", hb.Agent.RequestWithdrawal)
	}
}

// RegisterWorkerRoutes sets up endpoints for the worker dashboard.
func RegisterWorkerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	workerGroup := r.Group("/api/worker")
	{
		workerGroup.Use(middleware.SessionAuth(hb.Sessions), middleware.RequireRoles(middleware.WorkerRoles...))
		workerGroup.GET("/profile", hb.Worker.Profile)
		workerGroup.PATCH("/availability", hb.Worker.SetAvailability)
		workerGroup.POST("/device", hb.Worker.RegisterDevice)

		workerGroup.GET("/jobs", hb.Worker.MyJobs)
		workerGroup.GET("/offers", hb.Worker.Offers)
		workerGroup.POST("/jobs/:id/accept", hb.Worker.AcceptJob)
		workerGroup.POST("/jobs/:id/decline", hb.Worker.DeclineJob)
		workerGroup.POST("/jobs/:id/start", hb.Worker.StartJob)
		workerGroup.POST("/jobs/:id/complete", hb.Worker.CompleteJob)
		workerGroup.POST("/notifications/:id/dismiss", hb.Worker.DismissNotification)

		driver := workerGroup.Group("/orders")
		driver.Use(middleware.RequireRoles(models.RoleDriver))
		driver.GET("", hb.Worker.MyOrders)
		driver.PATCH("/:id/status", hb.Worker.UpdateOrderStatus)
		driver.POST("/:id/release", hb.Worker.ReleaseOrder)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Muraho, KigaliMove is running", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.RequestsPerMin))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterAgentRoutes(r, hb)
	RegisterWorkerRoutes(r, hb)
}
