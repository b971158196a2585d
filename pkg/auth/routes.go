package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all auth routes.
func RegisterRoutes(e *echo.Echo, authService *Service, authMiddleware *Middleware, syncer Syncer) {
	h := &handler{
		authService: authService,
		syncer:      syncer,
	}

	auth := e.Group("/auth")
	auth.GET("/status", h.status)
	auth.POST("/setup", h.setup)
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.GET("/me", h.me, authMiddleware.Authenticate)
}
