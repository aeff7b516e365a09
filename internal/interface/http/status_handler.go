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

// StatusHandler serves posting and timelines.
type StatusHandler struct {
	Svc    *application.StatusService
	Logger *logrus.Logger
}

func NewStatusHandler(svc *application.StatusService, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{Svc: svc, Logger: logger}
}

type createStatusRequest struct {
	Content string `json:"content" binding:"required,max=140"`
}

// Create POST /api/statuses
func (h *StatusHandler) Create(c *gin.Context) {
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	st, err := h.Svc.Create(c.Request.Context(), uid, req.Content)
	if err != nil {
		h.Logger.WithError(err).Error("create status failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to publish status", nil)
		return
	}
	response.Success(c, http.StatusCreated, statusView(st), "status published", nil)
}

// Delete DELETE /api/statuses/:id (owner only)
func (h *StatusHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		switch {
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "you are not allowed to do that", nil)
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "status not found", nil)
		default:
			h.Logger.WithError(err).Error("delete status failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to delete status", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "status deleted", nil)
}

// ListByUser GET /api/users/:id/statuses
func (h *StatusHandler) ListByUser(c *gin.Context) {
	limit, offset, page := pagination(c)
	statuses, total, err := h.Svc.ListByUser(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("list statuses failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list statuses", nil)
		return
	}
	response.Success(c, http.StatusOK, statusViews(statuses), "statuses", pageMeta(page, limit, total))
}

// Feed GET /api/feed — own statuses plus followed users'.
func (h *StatusHandler) Feed(c *gin.Context) {
	limit, offset, page := pagination(c)
	uid := c.GetString("userID")
	statuses, total, err := h.Svc.Feed(c.Request.Context(), uid, limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("feed failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load feed", nil)
		return
	}
	response.Success(c, http.StatusOK, statusViews(statuses), "feed", pageMeta(page, limit, total))
}
