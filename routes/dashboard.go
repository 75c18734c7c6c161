package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type DashboardHandler struct {
	dashboards services.DashboardService
}

func NewDashboardHandler(dashboards services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/dashboard")
	g.GET("/admin", middleware.RequireRoles(models.RoleAdmin), h.admin)
	g.GET("/user", h.user)
	g.GET("/decorator", middleware.RequireRoles(models.RoleDecorator), h.decorator)
}

func (h *DashboardHandler) admin(c *gin.Context) {
	data, err := h.dashboards.Admin(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, data)
}

func (h *DashboardHandler) user(c *gin.Context) {
	data, err := h.dashboards.User(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, data)
}

func (h *DashboardHandler) decorator(c *gin.Context) {
	data, err := h.dashboards.Decorator(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, data)
}
