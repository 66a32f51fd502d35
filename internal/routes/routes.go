package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/reservaya/booking-api/internal/audit"
	"github.com/reservaya/booking-api/internal/config"
	"github.com/reservaya/booking-api/internal/handlers"
	"github.com/reservaya/booking-api/internal/infra/payments"
	infraRepo "github.com/reservaya/booking-api/internal/infra/repository"
	"github.com/reservaya/booking-api/internal/infra/storage"
	"github.com/reservaya/booking-api/internal/middleware"
	ucAppointment "github.com/reservaya/booking-api/internal/usecase/appointment"
)

// Deps son los colaboradores externos opcionales del API. Un nil desactiva
// la función correspondiente sin afectar el resto.
type Deps struct {
	Redis    *redis.Client
	Storage  storage.Uploader
	Payments payments.LinkProvider
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(repo)

	bookPublicUC := ucAppointment.NewCreatePublicAppointment(
		repo,
		auditDispatcher,
		deps.Payments,
	)

	createPrivateUC := ucAppointment.NewCreatePrivateAppointment(
		repo,
		auditDispatcher,
	)

	statusChangeUC := ucAppointment.NewStatusChange(
		repo,
		auditDispatcher,
	)

	todayUC := ucAppointment.NewGetBarberToday(
		repo,
		auditDispatcher,
	)

	listUC := ucAppointment.NewListAppointments(repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(db, repo, deps.Storage)

	publicHandler := handlers.NewPublicHandler(repo, availabilityUC, bookPublicUC)
	appointmentHandler := handlers.NewAppointmentHandler(repo, listUC, createPrivateUC, statusChangeUC)
	barberHandler := handlers.NewBarberHandler(db, repo, todayUC)
	barberBlockHandler := handlers.NewBarberBlockHandler(db, repo)
	clientHandler := handlers.NewClientHandler(db, repo)
	serviceHandler := handlers.NewServiceHandler(db, repo)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, repo)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA (por slug, sin auth)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetProfile)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.GetAvailability)

			book := publicAPI.Group("")
			if deps.Redis != nil {
				book.Use(middleware.RateLimit(deps.Redis, cfg.BookingRateLimit, middleware.RateLimitWindow))
			}
			book.POST("/:slug/book", publicHandler.Book)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (staff)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.Get)

			secured.GET("/business", businessHandler.Get)
			secured.PUT("/business", businessHandler.Update)
			secured.POST("/business/logo", businessHandler.UploadLogo)

			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id/check-in", appointmentHandler.CheckIn)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/barbers", barberHandler.List)
			secured.POST("/barbers", barberHandler.Create)
			secured.PUT("/barbers/:id", barberHandler.Update)
			secured.GET("/barbers/:id/appointments/today", barberHandler.Today)

			secured.GET("/barbers/:id/blocks", barberBlockHandler.List)
			secured.POST("/barbers/:id/blocks", barberBlockHandler.Create)
			secured.DELETE("/barbers/:id/blocks/:blockId", barberBlockHandler.Delete)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PUT("/services/:id", serviceHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
