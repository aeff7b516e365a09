package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/internal/application"
	"github.com/okadio/microblog/pkg/helpers"
	"github.com/okadio/microblog/pkg/response"
	"github.com/okadio/microblog/pkg/validation"
)

// AuthHandler owns the account lifecycle endpoints: signup, confirmation,
// login, refresh, logout.
type AuthHandler struct {
	Svc     *application.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Name                 string `json:"name" binding:"required,max=50"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,pwd"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type confirmRequest struct {
	Token string `json:"token" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// Signup POST /api/signup
// Creates an unactivated account and queues the confirmation email. No
// session is established until the email is confirmed.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateEmail) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"email": "has already been taken"})
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, http.StatusInternalServerError, "signup failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, userView(u), "check your email to confirm your account", nil)
}

// Confirm POST /api/auth/confirm {token}
// Consumes the single-use activation token and logs the user in.
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "invalid or already used token", nil)
			return
		}
		h.Logger.WithError(err).Error("confirm failed")
		response.Error[any](c, http.StatusInternalServerError, "confirmation failed", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userView(u), "email confirmed, welcome aboard", nil)
}

// Login POST /api/login {email, password, remember}
// The failure message never reveals whether the email exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "email and password do not match", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)

	visitor, _ := c.Cookie("visitor_id")
	redirect := h.Svc.RedirectAfterLogin(c.Request.Context(), visitor, "/api/profile")

	response.Success(c, http.StatusOK, userView(u), "welcome back", gin.H{
		"redirect_to":        redirect,
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/logout
// Unconditional success; logging out twice is fine.
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("session teardown failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "you have been logged out", nil)
}
