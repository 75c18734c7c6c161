package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes uses one wildcard name per segment: GET reads it as an
// email, the role endpoint as a numeric id
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.GET("", middleware.RequireRoles(models.RoleAdmin), h.search)
	g.GET("/:user", h.getByEmail)
	g.PATCH("/:user/role", middleware.RequireRoles(models.RoleAdmin), h.updateRole)
	g.PATCH("/update/:email", h.updateProfile)
}

func (h *UserHandler) search(c *gin.Context) {
	users, err := h.users.Search(c.Request.Context(), middleware.ActorFrom(c), c.Query("searchUser"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, users)
}

func (h *UserHandler) getByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), middleware.ActorFrom(c), c.Param("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, user)
}

func (h *UserHandler) updateRole(c *gin.Context) {
	id, ok := idParam(c, "user")
	if !ok {
		return
	}
	var req models.RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.users.UpdateRole(c.Request.Context(), middleware.ActorFrom(c), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, user)
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), c.Param("email"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, user)
}
