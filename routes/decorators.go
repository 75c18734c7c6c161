package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type DecoratorHandler struct {
	decorators services.DecoratorService
}

func NewDecoratorHandler(decorators services.DecoratorService) *DecoratorHandler {
	return &DecoratorHandler{decorators: decorators}
}

func (h *DecoratorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	g := rg.Group("/decorators")
	g.POST("", h.register)
	g.GET("", admin, h.list)
	g.GET("/available", admin, h.available)
	g.GET("/earnings", middleware.RequireRoles(models.RoleDecorator, models.RoleAdmin), h.earnings)
	g.PATCH("/:id", admin, h.updateStatus)
	g.DELETE("/:id", admin, h.delete)
}

func (h *DecoratorHandler) register(c *gin.Context) {
	var req models.DecoratorCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	decorator, err := h.decorators.Register(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusCreated, decorator)
}

func (h *DecoratorHandler) list(c *gin.Context) {
	filter := models.DecoratorFilter{
		Status:     models.DecoratorStatus(c.Query("status")),
		WorkStatus: c.Query("workStatus"),
		District:   c.Query("district"),
		Expertise:  c.Query("expertise"),
	}
	decorators, err := h.decorators.List(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, decorators)
}

func (h *DecoratorHandler) available(c *gin.Context) {
	q := services.AvailabilityQuery{
		District:  c.Query("district"),
		Expertise: c.Query("expertise"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			badRequest(c, err)
			return
		}
		q.Date = &date
	}
	decorators, err := h.decorators.ListAvailable(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, decorators)
}

func (h *DecoratorHandler) earnings(c *gin.Context) {
	earnings, err := h.decorators.Earnings(c.Request.Context(), middleware.ActorFrom(c), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, earnings)
}

func (h *DecoratorHandler) updateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.DecoratorStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	decorator, err := h.decorators.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, decorator)
}

func (h *DecoratorHandler) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.decorators.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Decorator deleted"})
}
