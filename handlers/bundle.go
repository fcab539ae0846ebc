package handlers

import (
	"kigalimove/middleware"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Sessions gates every dashboard group.
	Sessions middleware.SessionResolver
	// RequestsPerMin is the per-IP rate limit.
	RequestsPerMin int

	// Public endpoints
	Orders       *OrderHandler
	Locations    *LocationHandler
	Applications *ApplicationHandler
	Auth         *AuthHandler

	// Dashboards
	Admin  *AdminHandler
	Agent  *AgentHandler
	Worker *WorkerHandler
}
