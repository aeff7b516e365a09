package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/container"
	handlers "github.com/okadio/microblog/internal/interface/http"
	"github.com/okadio/microblog/internal/interface/middleware"
)

// UserModule wires user pages and profile mutations.
// Public: GET /api/users, GET /api/users/:id
// Protected: GET /api/profile, PUT/DELETE /api/users/:id,
// POST /api/users/:id/avatar, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	publicLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/users", publicLimiter, m.Handler.List)

	auth := rg.Group("/")
	auth.Use(authMiddleware())
	auth.Use(protectedLimits()...)
	{
		auth.GET("/profile", m.Handler.Profile)
		// Search before the :id wildcard so /users/search resolves here
		auth.GET("/users/search", m.Handler.Search)
		auth.PUT("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
		auth.POST("/users/:id/avatar", m.Handler.UploadAvatar)
	}

	rg.GET("/users/:id", publicLimiter, m.Handler.Show)
}
