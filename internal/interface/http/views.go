package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okadio/microblog/internal/domain/entity"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// userView is the public shape of a user. The password hash and activation
// token never leave the service boundary.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"activated":  u.Activated,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func userViews(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out
}

func statusView(s *entity.Status) gin.H {
	return gin.H{
		"id":         s.ID,
		"user_id":    s.UserID,
		"user_name":  s.UserName,
		"content":    s.Content,
		"created_at": s.CreatedAt,
	}
}

func statusViews(statuses []*entity.Status) []gin.H {
	out := make([]gin.H, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, statusView(s))
	}
	return out
}

// pagination reads page/per_page query params into limit/offset.
func pagination(c *gin.Context) (limit, offset, page int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if limit < 1 || limit > maxPerPage {
		limit = defaultPerPage
	}
	return limit, (page - 1) * limit, page
}

func pageMeta(page, perPage, total int) gin.H {
	return gin.H{"page": page, "per_page": perPage, "total": total}
}
