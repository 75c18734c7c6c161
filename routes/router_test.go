package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/config"
	"decor-marketplace-server/models"
	"decor-marketplace-server/notify"
	"decor-marketplace-server/payment"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/services"
	"decor-marketplace-server/testutil"
	"decor-marketplace-server/types"
	"decor-marketplace-server/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Load()
	m.Run()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type server struct {
	t        *testing.T
	router   *gin.Engine
	userRepo repository.UserRepository
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := testutil.OpenTestDB(t)

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	decoratorRepo := repository.NewDecoratorRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	notificationRepo := repository.NewNotificationRepository(db)
	inbox := notify.NewInboxNotifier(notificationRepo)

	bookings := services.NewBookingService(bookingRepo, serviceRepo, decoratorRepo, inbox)
	deps := Dependencies{
		Users:    services.NewUserService(userRepo),
		Bookings: bookings,
		Payments: services.NewPaymentService(paymentRepo, bookingRepo, payment.NewSandboxGateway(), inbox, services.PaymentOptions{
			Currency:   "bdt",
			SuccessURL: "http://localhost:5173/dashboard/payment-success",
			CancelURL:  "http://localhost:5173/dashboard/payment-cancelled",
		}),
		Decorators:     services.NewDecoratorService(decoratorRepo, bookingRepo, userRepo, inbox),
		Catalog:        services.NewCatalogService(serviceRepo, bookingRepo),
		Dashboards:     services.NewDashboardService(bookingRepo, paymentRepo, bookings),
		Notifications:  services.NewNotificationService(notificationRepo),
		UserRepo:       userRepo,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	return &server{t: t, router: SetupRouter(deps), userRepo: userRepo}
}

// do sends body as JSON and decodes the response envelope
func (s *server) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *server) admin() string {
	s.t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(s.t, err)
	u := &models.User{Email: "admin@decor.test", DisplayName: "Admin", PasswordHash: hash, Role: models.RoleAdmin, IsActive: true}
	require.NoError(s.t, s.userRepo.Create(context.Background(), u))
	token, _, err := utils.GenerateToken(types.Actor{ID: u.ID, Email: u.Email, Role: string(u.Role)})
	require.NoError(s.t, err)
	return token
}

func (s *server) register(email string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":       email,
		"password":    "secret123",
		"displayName": "Someone",
	})
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	var auth services.AuthResult
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	code, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	adminToken := s.admin()
	clientToken := s.register("client@decor.test")
	decoToken := s.register("deco@decor.test")

	code, env := s.do(http.MethodPost, "/api/v1/services", adminToken, gin.H{
		"service_name":     "Royal Stage",
		"service_category": "Wedding Event",
		"cost":             10000,
		"unit":             "per event",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	svc := decode[models.Service](t, env.Data)

	code, env = s.do(http.MethodPost, "/api/v1/bookings", clientToken, gin.H{
		"serviceId": svc.ID,
		"userName":  "Client",
		"location":  "House 12, Road 4",
		"region":    "Dhaka",
		"district":  "Dhaka",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	booking := decode[models.Booking](t, env.Data)
	assert.Equal(t, 10000.0, booking.Price)
	bookingPath := fmt.Sprintf("/api/v1/bookings/%d", booking.ID)

	code, env = s.do(http.MethodPost, "/api/v1/servicePayment-checkout-session", clientToken, gin.H{"bookingId": booking.ID, "price": 1})
	require.Equal(t, http.StatusCreated, code, env.Message)
	session := decode[models.CheckoutSession](t, env.Data)
	assert.Equal(t, 10000.0, session.Amount)

	code, env = s.do(http.MethodPatch, "/api/v1/payment-success?session_id="+session.SessionID, clientToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	first := decode[services.PaymentConfirmation](t, env.Data)
	assert.NotEmpty(t, first.TrackingID)

	code, env = s.do(http.MethodPatch, "/api/v1/payment-success?session_id="+session.SessionID, clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	again := decode[services.PaymentConfirmation](t, env.Data)
	assert.True(t, again.AlreadyConfirmed)
	assert.Equal(t, first.TrackingID, again.TrackingID)

	code, env = s.do(http.MethodPost, "/api/v1/decorators", decoToken, gin.H{
		"name":      "Deco",
		"age":       29,
		"expertise": []string{"Wedding Decoration"},
		"region":    "Dhaka",
		"district":  "Dhaka",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	decorator := decode[models.Decorator](t, env.Data)

	code, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/decorators/%d", decorator.ID), adminToken, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPatch, bookingPath, adminToken, gin.H{"decoratorId": decorator.ID})
	require.Equal(t, http.StatusOK, code, env.Message)

	// the token was issued before approval, the stored role is used
	code, env = s.do(http.MethodPatch, bookingPath+"/status", decoToken, gin.H{"serviceStatus": "planning"})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, _ = s.do(http.MethodPatch, bookingPath+"/accept", decoToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPatch, bookingPath+"/status", decoToken, gin.H{"serviceStatus": "on-the-way"})
	assert.Equal(t, http.StatusConflict, code)

	var result services.StatusResult
	for _, status := range []string{"planning", "materials-prepared", "on-the-way", "setup-in-progress", "completed"} {
		code, env = s.do(http.MethodPatch, bookingPath+"/status", decoToken, gin.H{"serviceStatus": status})
		require.Equal(t, http.StatusOK, code, env.Message)
		result = decode[services.StatusResult](t, env.Data)
	}
	require.NotNil(t, result.Settlement)
	assert.Equal(t, 8000.0, result.Settlement.DecoratorShare)
	assert.Equal(t, 2000.0, result.Settlement.AdminShare)

	code, env = s.do(http.MethodGet, bookingPath+"/events", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	history := decode[[]models.BookingEvent](t, env.Data)
	assert.GreaterOrEqual(t, len(history), 8)

	code, env = s.do(http.MethodGet, "/api/v1/dashboard/user", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	dash := decode[services.UserDashboard](t, env.Data)
	assert.Equal(t, 10000.0, dash.TotalSpent)

	code, env = s.do(http.MethodGet, "/api/v1/decorators/earnings", decoToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodGet, "/api/v1/notifications?unread=true", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	inbox := decode[[]models.Notification](t, env.Data)
	require.NotEmpty(t, inbox)
	assert.Equal(t, models.EventCompleted, inbox[0].Type)

	code, _ = s.do(http.MethodPost, "/api/v1/notifications/mark-all-read", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(http.MethodGet, "/api/v1/notifications?unread=true", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]models.Notification](t, env.Data))
}

func TestErrorStatusCodes(t *testing.T) {
	s := newServer(t)
	adminToken := s.admin()
	clientToken := s.register("client@decor.test")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/bookings", "", nil, http.StatusUnauthorized},
		{"bad id", http.MethodGet, "/api/v1/bookings/abc", clientToken, nil, http.StatusBadRequest},
		{"unknown booking", http.MethodGet, "/api/v1/bookings/99", clientToken, nil, http.StatusNotFound},
		{"admin only", http.MethodGet, "/api/v1/bookings/pending", clientToken, nil, http.StatusForbidden},
		{"missing body fields", http.MethodPost, "/api/v1/bookings", clientToken, gin.H{"location": "x"}, http.StatusBadRequest},
		{"unknown service", http.MethodPost, "/api/v1/bookings", clientToken, gin.H{"serviceId": 42, "location": "x", "region": "Dhaka", "district": "Dhaka"}, http.StatusBadRequest},
		{"unknown session", http.MethodPatch, "/api/v1/payment-success?session_id=cs_missing", clientToken, nil, http.StatusConflict},
		{"min above max", http.MethodGet, "/api/v1/services?minBudget=500&maxBudget=100", "", nil, http.StatusBadRequest},
		{"budget not a number", http.MethodGet, "/api/v1/services?minBudget=cheap", "", nil, http.StatusBadRequest},
		{"public catalog", http.MethodGet, "/api/v1/services", "", nil, http.StatusOK},
		{"catalog write needs admin", http.MethodPost, "/api/v1/services", clientToken, gin.H{"service_name": "x", "service_category": "y", "cost": 1}, http.StatusForbidden},
		{"admin dashboard", http.MethodGet, "/api/v1/dashboard/admin", adminToken, nil, http.StatusOK},
		{"uploads disabled", http.MethodPost, "/api/v1/uploads/image", clientToken, nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, code, env.Message)
		})
	}
}

func TestLoginAndDuplicateRegistration(t *testing.T) {
	s := newServer(t)
	s.register("client@decor.test")

	code, _ := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "client@decor.test", "password": "secret123", "displayName": "Again",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "client@decor.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "CLIENT@decor.test", "password": "secret123"})
	require.Equal(t, http.StatusOK, code, env.Message)
	auth := decode[services.AuthResult](t, env.Data)

	code, env = s.do(http.MethodGet, "/api/v1/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "client@decor.test", decode[models.User](t, env.Data).Email)
}
