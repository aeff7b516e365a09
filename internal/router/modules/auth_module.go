package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/container"
	handlers "github.com/okadio/microblog/internal/interface/http"
	"github.com/okadio/microblog/internal/interface/middleware"
)

// AuthModule wires the account lifecycle routes.
// Public: POST /api/signup, /api/auth/confirm, /api/login, /api/refresh
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	signupLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/confirm", confirmLimiter, m.Handler.Confirm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(authMiddleware())
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
