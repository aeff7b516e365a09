package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okadio/microblog/internal/session"
	"github.com/okadio/microblog/pkg/helpers"
	"github.com/okadio/microblog/pkg/response"
)

// Auth validates the access token cookie against the live session in Redis
// and sets userID, userName, and userEmail in the Gin context.
//
// When an anonymous GET is rejected, the requested path is captured as the
// intended destination under a visitor cookie, so the next successful login
// can send the user back where they were headed.
func Auth(sessions *session.Manager, jwt *helpers.JWTManager, cookies *helpers.Manager) gin.HandlerFunc {
	deny := func(c *gin.Context, msg string, detail interface{}) {
		if c.Request.Method == http.MethodGet {
			captureIntended(c, sessions, cookies)
		}
		response.AbortError(c, http.StatusUnauthorized, msg, detail)
	}
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			deny(c, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			deny(c, "invalid access token", err.Error())
			return
		}

		data, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			deny(c, "session not found", nil)
			return
		}
		if data["sid"] != claims.SessionID {
			deny(c, "session not found", nil)
			return
		}

		c.Set("userID", data["user_id"])  // required by handlers
		c.Set("userName", data["name"])   // extra convenience
		c.Set("userEmail", data["email"]) // extra convenience
		c.Next()
	}
}

func captureIntended(c *gin.Context, sessions *session.Manager, cookies *helpers.Manager) {
	visitor, err := c.Cookie("visitor_id")
	if err != nil || visitor == "" {
		visitor = uuid.NewString()
		cookies.SetVisitorID(c, visitor, time.Now().Add(time.Hour))
	}
	_ = sessions.CaptureIntended(c.Request.Context(), visitor, c.Request.URL.RequestURI())
}
