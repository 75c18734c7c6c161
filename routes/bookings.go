package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type BookingHandler struct {
	bookings services.BookingService
}

func NewBookingHandler(bookings services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// RegisterRoutes expects rg to be behind AuthMiddleware
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	decorator := middleware.RequireRoles(models.RoleDecorator, models.RoleAdmin)

	g := rg.Group("/bookings")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/pending", admin, h.pending)
	g.GET("/decorator", decorator, h.decoratorBookings)
	g.GET("/today", decorator, h.today)
	g.GET("/:id", h.get)
	g.GET("/:id/events", h.history)
	g.PATCH("/:id", admin, h.assign)
	g.PATCH("/:id/service-date", admin, h.setServiceDate)
	g.PATCH("/:id/accept", decorator, h.respond(services.DecisionAccept))
	g.PATCH("/:id/reject", decorator, h.respond(services.DecisionReject))
	g.PATCH("/:id/status", decorator, h.advance)
	g.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	filter := models.BookingFilter{
		UserEmail:     c.Query("email"),
		ServiceStatus: models.ServiceStatus(c.Query("serviceStatus")),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
	}
	bookings, err := h.bookings.ListBookings(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, bookings)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.bookings.CreateBooking(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusCreated, booking)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookings.GetBooking(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, booking)
}

func (h *BookingHandler) history(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	events, err := h.bookings.History(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, events)
}

func (h *BookingHandler) pending(c *gin.Context) {
	bookings, err := h.bookings.ListPendingBookings(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, bookings)
}

func (h *BookingHandler) decoratorBookings(c *gin.Context) {
	bookings, err := h.bookings.ListDecoratorBookings(c.Request.Context(), middleware.ActorFrom(c), c.Query("decoratorEmail"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, bookings)
}

// today accepts an optional date=YYYY-MM-DD, defaulting to the server's current day.
// Admins may pass decoratorEmail to pick one decorator.
func (h *BookingHandler) today(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			badRequest(c, err)
			return
		}
		at = parsed
	}
	bookings, err := h.bookings.TodaySchedule(c.Request.Context(), middleware.ActorFrom(c), c.Query("decoratorEmail"), at)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, bookings)
}

func (h *BookingHandler) assign(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.BookingAssign
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.bookings.AssignDecorator(c.Request.Context(), middleware.ActorFrom(c), id, req.DecoratorID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, booking)
}

func (h *BookingHandler) setServiceDate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.BookingServiceDate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.bookings.SetServiceDate(c.Request.Context(), middleware.ActorFrom(c), id, req.ServiceDate)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, booking)
}

func (h *BookingHandler) respond(decision services.Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		booking, err := h.bookings.RespondToAssignment(c.Request.Context(), middleware.ActorFrom(c), id, decision)
		if err != nil {
			respondError(c, err)
			return
		}
		success(c, http.StatusOK, booking)
	}
}

func (h *BookingHandler) advance(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.BookingStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.bookings.AdvanceStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.ServiceStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.bookings.CancelBooking(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled"})
}
