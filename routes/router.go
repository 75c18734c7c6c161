package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/media"
	"decor-marketplace-server/middleware"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/services"
	"decor-marketplace-server/websocket"
)

// Dependencies is everything the HTTP layer needs from main
type Dependencies struct {
	Users         services.UserService
	Bookings      services.BookingService
	Payments      services.PaymentService
	Decorators    services.DecoratorService
	Catalog       services.CatalogService
	Dashboards    services.DashboardService
	Notifications services.NotificationService

	UserRepo repository.UserRepository
	Hub      *websocket.Hub
	Uploader media.Uploader

	UploadFolder   string
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
}

// SetupRouter builds the engine with the global middleware chain and every /api/v1 route
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.AuditLogMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	if deps.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	auth := middleware.AuthMiddleware(deps.UserRepo)
	api := router.Group("/api/v1")
	protected := api.Group("", auth)

	NewAuthHandler(deps.Users).RegisterRoutes(api, auth)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(api, protected)
	NewBookingHandler(deps.Bookings).RegisterRoutes(protected)
	NewDecoratorHandler(deps.Decorators).RegisterRoutes(protected)
	NewUserHandler(deps.Users).RegisterRoutes(protected)
	NewPaymentHandler(deps.Payments).RegisterRoutes(protected)
	NewDashboardHandler(deps.Dashboards).RegisterRoutes(protected)
	NewUploadHandler(deps.Uploader, deps.UploadFolder).RegisterRoutes(protected)
	if deps.Notifications != nil {
		NewNotificationHandler(deps.Notifications).RegisterRoutes(protected)
	}

	if deps.Hub != nil {
		NewWebSocketHandler(deps.Hub, deps.AllowedOrigins).RegisterRoutes(api, middleware.WebSocketAuthMiddleware(deps.UserRepo))
	}

	return router
}
