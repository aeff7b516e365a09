package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/container"
	handlers "github.com/okadio/microblog/internal/interface/http"
	"github.com/okadio/microblog/internal/interface/middleware"
)

// FollowModule wires the follow graph.
// Public: GET /api/users/:id/followers, GET /api/users/:id/following
// Protected: POST/DELETE /api/users/:id/follow
type FollowModule struct {
	Handler *handlers.FollowHandler
}

func NewFollowModule(h *handlers.FollowHandler) *FollowModule {
	return &FollowModule{Handler: h}
}

func (m *FollowModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	publicLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/users/:id/followers", publicLimiter, m.Handler.Followers)
	rg.GET("/users/:id/following", publicLimiter, m.Handler.Following)

	auth := rg.Group("/")
	auth.Use(authMiddleware())
	auth.Use(protectedLimits()...)
	{
		auth.POST("/users/:id/follow", m.Handler.Follow)
		auth.DELETE("/users/:id/follow", m.Handler.Unfollow)
	}
}
