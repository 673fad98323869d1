package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kngkeeper/therapydash-demo/internal/middleware"
)

// Mount registers the full route surface on r. The rate limiter guards the
// credential endpoints only; everything under /api requires a bearer token.
func Mount(r *gin.Engine, h *Handler, secret string, rl *middleware.RateLimiter) {
	authRoutes := r.Group("/auth")
	if rl != nil {
		authRoutes.Use(rl.Middleware())
	}
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.Auth(secret))
	{
		apiRoutes.GET("/sessions", h.ListSessions)
		apiRoutes.GET("/sessions/available", h.ListAvailable)
		apiRoutes.POST("/sessions", h.CreateSession)
		apiRoutes.PATCH("/sessions/:id/book", h.BookSession)
		apiRoutes.PATCH("/sessions/:id/reschedule", h.RescheduleSession)
		apiRoutes.PATCH("/sessions/:id/cancel", h.CancelSession)
		apiRoutes.POST("/sessions/:id/feedback", h.AddFeedback)
	}
}
