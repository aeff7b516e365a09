package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/internal/application"
	"github.com/okadio/microblog/pkg/response"
	"github.com/okadio/microblog/pkg/validation"
)

// UserHandler serves user pages: listing, profile, update/delete (ownership
// gated), avatar upload, and search.
type UserHandler struct {
	Svc     *application.AccountService
	Follows *application.FollowService
	Logger  *logrus.Logger
}

func NewUserHandler(svc *application.AccountService, follows *application.FollowService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Follows: follows, Logger: logger}
}

type updateProfileRequest struct {
	Name                 string `json:"name" binding:"omitempty,max=50"`
	Password             string `json:"password" binding:"omitempty,pwd"`
	PasswordConfirmation string `json:"password_confirmation" binding:"eqfield=Password"`
}

// forbiddenOrNotFound maps service denials onto HTTP without leaking
// existence to unauthorized actors.
func forbiddenOrNotFound(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "you are not allowed to do that", nil)
		return true
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return true
	}
	return false
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	limit, offset, page := pagination(c)
	users, total, err := h.Svc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.Success(c, http.StatusOK, userViews(users), "all users", pageMeta(page, limit, total))
}

// Show GET /api/users/:id
func (h *UserHandler) Show(c *gin.Context) {
	id := c.Param("id")
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	followers, following, err := h.Follows.Counts(c.Request.Context(), id)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", id).Warn("follow counts failed")
	}
	view := userView(u)
	view["followers_count"] = followers
	view["following_count"] = following
	response.Success(c, http.StatusOK, view, "user", nil)
}

// Profile GET /api/profile
func (h *UserHandler) Profile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetUser(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile", nil)
}

// Update PUT /api/users/:id
// Name and/or password; a missing password leaves the stored hash untouched.
func (h *UserHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	actor := c.GetString("userID")
	target := c.Param("id")
	u, err := h.Svc.UpdateProfile(c.Request.Context(), actor, target, application.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if forbiddenOrNotFound(c, err) {
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile updated", nil)
}

// Delete DELETE /api/users/:id
// Cascades statuses and follow edges at the store.
func (h *UserHandler) Delete(c *gin.Context) {
	actor := c.GetString("userID")
	target := c.Param("id")
	if err := h.Svc.DeleteAccount(c.Request.Context(), actor, target); err != nil {
		if forbiddenOrNotFound(c, err) {
			return
		}
		h.Logger.WithError(err).Error("delete account failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete account", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

// UploadAvatar POST /api/users/:id/avatar (multipart "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor := c.GetString("userID")
	target := c.Param("id")
	if !application.CanUpdateUser(actor, target) {
		response.Error[any](c, http.StatusForbidden, "you are not allowed to do that", nil)
		return
	}
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), target, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if forbiddenOrNotFound(c, err) {
			return
		}
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to upload avatar", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

// Search GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	limit, _, _ := pagination(c)
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, limit)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
