package handler

import (
	"net/http"

	"reviewdeck/internal/auth"
	"reviewdeck/internal/dto"
	"reviewdeck/internal/middleware"
	"reviewdeck/internal/service"
	"reviewdeck/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService service.UserService
	sessions    session.Store
	codec       *session.CookieCodec
}

func NewAuthHandler(userService service.UserService, sessions session.Store, codec *session.CookieCodec) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		codec:       codec,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/csrf", h.CSRFToken)
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
}

// CSRFToken returns the session's anti-forgery token, issuing one on first
// use. GET /auth/csrf
func (h *AuthHandler) CSRFToken(c *gin.Context) {
	sess := middleware.GetSession(c)

	issued := sess.CSRFToken == ""
	token, err := auth.IssueCSRFToken(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	if issued {
		if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.CSRFResponse{CSRFToken: token})
}

// Register creates a new account. POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !auth.ValidateCSRFToken(sess, c.PostForm("csrf_token")) {
		respondError(c, service.ErrCSRF)
		return
	}

	user, err := h.userService.Register(
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
		c.PostForm("confirm_password"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login authenticates and binds the user to a fresh session. POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !auth.ValidateCSRFToken(sess, c.PostForm("csrf_token")) {
		respondError(c, service.ErrCSRF)
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide both username and password."})
		return
	}

	user, err := h.userService.Authenticate(username, password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Rotate the session on privilege change so a pre-login session id can
	// never be replayed as an authenticated one.
	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		respondError(c, err)
		return
	}
	fresh := session.New()
	fresh.UserID = user.ID
	fresh.Username = user.Username
	if _, err := auth.IssueCSRFToken(fresh); err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.Save(c.Request.Context(), fresh); err != nil {
		respondError(c, err)
		return
	}
	middleware.SetSession(c, fresh)
	middleware.SetSessionCookie(c, h.codec, fresh.ID)

	c.JSON(http.StatusOK, dto.AuthResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// Logout destroys the session. POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !auth.ValidateCSRFToken(sess, c.PostForm("csrf_token")) {
		respondError(c, service.ErrCSRF)
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		respondError(c, err)
		return
	}
	middleware.ClearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}
