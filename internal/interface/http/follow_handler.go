package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/internal/application"
	"github.com/okadio/microblog/pkg/response"
)

// FollowHandler serves the follow graph endpoints.
type FollowHandler struct {
	Svc    *application.FollowService
	Logger *logrus.Logger
}

func NewFollowHandler(svc *application.FollowService, logger *logrus.Logger) *FollowHandler {
	return &FollowHandler{Svc: svc, Logger: logger}
}

// Follow POST /api/users/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	uid := c.GetString("userID")
	target := c.Param("id")
	if err := h.Svc.Follow(c.Request.Context(), uid, target); err != nil {
		switch {
		case errors.Is(err, application.ErrSelfFollow):
			response.Error[any](c, http.StatusUnprocessableEntity, "you cannot follow yourself", nil)
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("follow failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to follow", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": true}, "now following", nil)
}

// Unfollow DELETE /api/users/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	uid := c.GetString("userID")
	target := c.Param("id")
	if err := h.Svc.Unfollow(c.Request.Context(), uid, target); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("unfollow failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to unfollow", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": false}, "unfollowed", nil)
}

// Followers GET /api/users/:id/followers
func (h *FollowHandler) Followers(c *gin.Context) {
	limit, offset, page := pagination(c)
	users, total, err := h.Svc.Followers(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("followers failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list followers", nil)
		return
	}
	response.Success(c, http.StatusOK, userViews(users), "followers", pageMeta(page, limit, total))
}

// Following GET /api/users/:id/following
func (h *FollowHandler) Following(c *gin.Context) {
	limit, offset, page := pagination(c)
	users, total, err := h.Svc.Following(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("following failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list following", nil)
		return
	}
	response.Success(c, http.StatusOK, userViews(users), "following", pageMeta(page, limit, total))
}
