package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/container"
	handlers "github.com/okadio/microblog/internal/interface/http"
	"github.com/okadio/microblog/internal/interface/middleware"
)

// StatusModule wires posting and timelines.
// Public: GET /api/users/:id/statuses
// Protected: POST /api/statuses, DELETE /api/statuses/:id, GET /api/feed
type StatusModule struct {
	Handler *handlers.StatusHandler
}

func NewStatusModule(h *handlers.StatusHandler) *StatusModule {
	return &StatusModule{Handler: h}
}

func (m *StatusModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	publicLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/users/:id/statuses", publicLimiter, m.Handler.ListByUser)

	auth := rg.Group("/")
	auth.Use(authMiddleware())
	auth.Use(protectedLimits()...)
	{
		auth.POST("/statuses", m.Handler.Create)
		auth.DELETE("/statuses/:id", m.Handler.Delete)
		auth.GET("/feed", m.Handler.Feed)
	}
}
