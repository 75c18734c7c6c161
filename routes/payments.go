package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/models"
	"decor-marketplace-server/services"
)

type PaymentHandler struct {
	payments services.PaymentService
}

func NewPaymentHandler(payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes keeps the paths the dashboard client already calls
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/servicePayment-checkout-session", h.createCheckout)
	rg.PATCH("/payment-success", h.confirm)
	rg.GET("/payments", h.list)
}

func (h *PaymentHandler) createCheckout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.payments.CreateCheckoutSession(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"url":       session.URL,
		"sessionId": session.SessionID,
		"data":      session,
	})
}

func (h *PaymentHandler) confirm(c *gin.Context) {
	result, err := h.payments.ConfirmPayment(c.Request.Context(), middleware.ActorFrom(c), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

func (h *PaymentHandler) list(c *gin.Context) {
	payments, err := h.payments.ListPayments(c.Request.Context(), middleware.ActorFrom(c), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, payments)
}
