package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"decor-marketplace-server/config"
	"decor-marketplace-server/database"
	"decor-marketplace-server/events"
	"decor-marketplace-server/jobs"
	"decor-marketplace-server/media"
	"decor-marketplace-server/middleware"
	"decor-marketplace-server/notify"
	"decor-marketplace-server/payment"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/routes"
	"decor-marketplace-server/services"
	ws "decor-marketplace-server/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	config.Load()
	cfg := config.AppConfig

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	db := database.GetDB()
	if err := database.SeedAdmin(db); err != nil {
		log.Printf("⚠️ Admin seed failed: %v", err)
	}
	if err := database.SeedCatalog(db); err != nil {
		log.Printf("⚠️ Catalog seed failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	decoratorRepo := repository.NewDecoratorRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	hub := ws.NewHub()
	go hub.Run()

	notificationRepo := repository.NewNotificationRepository(db)
	publishers := events.Multi{notify.NewInboxNotifier(notificationRepo), ws.NewNotifier(hub)}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, booking events stay in-process: %v", err)
		} else {
			defer rabbit.Close()
			publishers = append(publishers, rabbit)
		}
	}
	if cfg.Twilio.Enabled() {
		sms := notify.NewSMSNotifier(notify.NewTwilioSender(cfg.Twilio), notify.NewAccountPhoneBook(userRepo, decoratorRepo))
		publishers = append(publishers, sms)
		log.Println("📱 SMS notifications enabled")
	}

	bookings := services.NewBookingService(bookingRepo, serviceRepo, decoratorRepo, publishers)
	payments := services.NewPaymentService(paymentRepo, bookingRepo, payment.NewSandboxGateway(), publishers, services.PaymentOptions{
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
		SessionTTL: time.Duration(cfg.Payment.SessionTTLMinutes) * time.Minute,
	})

	var uploader media.Uploader
	if cfg.Cloudinary.Enabled() {
		cld, err := media.NewCloudinaryUploader(cfg.Cloudinary)
		if err != nil {
			log.Printf("⚠️ Cloudinary disabled: %v", err)
		} else {
			uploader = cld
		}
	}

	limiter := middleware.NewRateLimiter()
	router := routes.SetupRouter(routes.Dependencies{
		Users:          services.NewUserService(userRepo),
		Bookings:       bookings,
		Payments:       payments,
		Decorators:     services.NewDecoratorService(decoratorRepo, bookingRepo, userRepo, publishers),
		Catalog:        services.NewCatalogService(serviceRepo, bookingRepo),
		Dashboards:     services.NewDashboardService(bookingRepo, paymentRepo, bookings),
		Notifications:  services.NewNotificationService(notificationRepo),
		UserRepo:       userRepo,
		Hub:            hub,
		Uploader:       uploader,
		UploadFolder:   cfg.Cloudinary.Folder,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
	})

	scheduler := jobs.NewScheduler()
	for _, entry := range []struct {
		spec string
		job  jobs.Job
	}{
		{cfg.Jobs.CheckoutExpirySpec, jobs.NewCheckoutExpiryJob(payments)},
		{cfg.Jobs.ReminderSpec, jobs.NewServiceReminderJob(bookingRepo, publishers)},
		{"@every 1h", jobs.NewLimiterCleanupJob(limiter, time.Hour)},
	} {
		if err := scheduler.Add(entry.spec, entry.job); err != nil {
			log.Fatal("Failed to schedule job:", err)
		}
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server forced to shut down: %v", err)
	}
	scheduler.Stop()
	hub.Stop()
	log.Println("✅ Server exited")
}
