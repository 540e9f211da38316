// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/handlers"
	"github.com/Zamahele/TenantManagement-sub001/internal/middleware"
	"github.com/Zamahele/TenantManagement-sub001/internal/scheduler"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

// Initialize wires services, handlers and routes. The returned scheduler is
// started and stopped by the caller alongside the HTTP server.
func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) (*gin.Engine, *scheduler.RentReminderScheduler, error) {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, nil, err
	}
	pdfRenderer := services.NewHTTPPDFRenderer(cfg.Renderer)
	signatureVerifier := services.NewSignatureVerifier()

	authService := services.NewAuthService(db, cfg)
	tenantService := services.NewTenantService(db)
	roomService := services.NewRoomService(db)
	leaseService := services.NewLeaseService(db)
	templateService := services.NewTemplateService(db)
	agreementService := services.NewAgreementService(
		db, templateService, pdfRenderer, storageService,
		notificationService, signatureVerifier, cfg.Signing,
	)
	rentService := services.NewRentService(db)
	paymentService := services.NewPaymentService(db, cfg)
	maintenanceService := services.NewMaintenanceService(db)

	reminderScheduler := scheduler.NewRentReminderScheduler(rentService, notificationService, cfg.Reminder, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	roomHandler := handlers.NewRoomHandler(roomService)
	leaseHandler := handlers.NewLeaseHandler(leaseService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	agreementHandler := handlers.NewAgreementHandler(agreementService, tenantService)
	rentHandler := handlers.NewRentHandler(rentService, leaseService, reminderScheduler)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
		}

		// Tenant routes
		tenants := v1.Group("/tenants")
		tenants.Use(middleware.AuthRequired())
		{
			tenants.GET("/me", tenantHandler.GetMyProfile)

			managed := tenants.Group("")
			managed.Use(middleware.ManagerRequired())
			{
				managed.POST("", tenantHandler.CreateTenant)
				managed.GET("", tenantHandler.GetTenants)
				managed.GET("/:id", tenantHandler.GetTenant)
				managed.PUT("/:id", tenantHandler.UpdateTenant)
				managed.DELETE("/:id", tenantHandler.DeleteTenant)
			}
		}

		// Room routes
		rooms := v1.Group("/rooms")
		rooms.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("", roomHandler.GetRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.PUT("/:id", roomHandler.UpdateRoom)
		}

		// Lease management routes (manager only)
		leases := v1.Group("/leases")
		leases.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			leases.POST("", leaseHandler.CreateLease)
			leases.GET("", leaseHandler.GetLeases)
			leases.GET("/:id", leaseHandler.GetLease)
			leases.POST("/:id/cancel", leaseHandler.CancelLease)
			leases.DELETE("/:id", leaseHandler.DeleteLease)

			leases.POST("/:id/generate", agreementHandler.GenerateAgreement)
			leases.POST("/:id/send", agreementHandler.SendToTenant)
			leases.POST("/:id/finalize", agreementHandler.FinalizeLease)
			leases.GET("/:id/signature/verify", agreementHandler.VerifySignature)
			leases.GET("/:id/next-due-date", rentHandler.GetNextDueDate)
		}

		// Signing routes (tenant or manager preview)
		signing := v1.Group("/signing/leases")
		signing.Use(middleware.AuthRequired())
		{
			signing.GET("/:id", agreementHandler.GetLeaseForSigning)
			signing.POST("/:id/sign", middleware.SigningRateLimit(), agreementHandler.SignLease)
			signing.GET("/:id/download", agreementHandler.DownloadSignedLease)
		}

		// Lease template routes
		templates := v1.Group("/templates")
		templates.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			templates.POST("", templateHandler.CreateTemplate)
			templates.GET("", templateHandler.GetTemplates)
			templates.GET("/:id", templateHandler.GetTemplate)
			templates.PUT("/:id", templateHandler.UpdateTemplate)
		}

		// Rent reporting routes
		rent := v1.Group("/rent")
		rent.Use(middleware.AuthRequired(), middleware.ManagerRequired())
		{
			rent.GET("/overdue", rentHandler.GetOverdueLeases)
			rent.GET("/upcoming", rentHandler.GetUpcomingLeases)
			rent.GET("/expiring", rentHandler.GetExpiringLeases)
			rent.POST("/reminders/run", rentHandler.RunRemindersNow)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/intent/:intent_id/confirm", paymentHandler.ConfirmPayment)

			managed := payments.Group("")
			managed.Use(middleware.ManagerRequired())
			{
				managed.POST("", paymentHandler.RecordPayment)
				managed.GET("", paymentHandler.GetPayments)
			}
		}

		// Maintenance routes
		maintenance := v1.Group("/maintenance")
		maintenance.Use(middleware.AuthRequired())
		{
			maintenance.POST("", maintenanceHandler.CreateRequest)

			managed := maintenance.Group("")
			managed.Use(middleware.ManagerRequired())
			{
				managed.GET("", maintenanceHandler.GetRequests)
				managed.PUT("/:id/status", maintenanceHandler.UpdateStatus)
			}
		}
	}

	return r, reminderScheduler, nil
}
