package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type AuthHandler struct {
	users services.UserService
}

func NewAuthHandler(users services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterRoutes mounts the public auth endpoints and /auth/me behind auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", auth, h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusCreated, result)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

func (h *AuthHandler) me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, user)
}
