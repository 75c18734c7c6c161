package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

// CatalogHandler serves the decoration packages
type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes mounts public reads on rg and admin writes on protected
func (h *CatalogHandler) RegisterRoutes(rg, protected *gin.RouterGroup) {
	public := rg.Group("/services")
	public.GET("", h.list)
	public.GET("/demand", h.demand)
	public.GET("/:id", h.get)

	admin := protected.Group("/services", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *CatalogHandler) list(c *gin.Context) {
	filter := models.ServiceFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	for key, dst := range map[string]**float64{"minBudget": &filter.MinBudget, "maxBudget": &filter.MaxBudget} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": key + " must be a number",
			})
			return
		}
		*dst = &v
	}

	list, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

func (h *CatalogHandler) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	svc, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, svc)
}

func (h *CatalogHandler) demand(c *gin.Context) {
	demand, err := h.catalog.Demand(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, demand)
}

func (h *CatalogHandler) create(c *gin.Context) {
	var req models.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	svc, err := h.catalog.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusCreated, svc)
}

func (h *CatalogHandler) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	svc, err := h.catalog.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, svc)
}

func (h *CatalogHandler) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted"})
}
