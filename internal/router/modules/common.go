package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/container"
	"github.com/okadio/microblog/internal/interface/middleware"
	"github.com/okadio/microblog/pkg/helpers"
)

// authMiddleware builds the shared session-validating middleware from the
// container singletons.
func authMiddleware() gin.HandlerFunc {
	cfg := container.GetConfig()
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	return middleware.Auth(container.GetSessions(), container.GetJWT(), cookies)
}

// protectedLimits is the softer default pair of limiters for authenticated
// routes.
func protectedLimits() []gin.HandlerFunc {
	rdb := container.GetRedis()
	return []gin.HandlerFunc{
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	}
}
