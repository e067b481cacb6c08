package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/audit"
	"github.com/agendusalao/salon-api/internal/config"
	"github.com/agendusalao/salon-api/internal/handlers"
	"github.com/agendusalao/salon-api/internal/infra/repository"
	"github.com/agendusalao/salon-api/internal/middleware"
	usecase "github.com/agendusalao/salon-api/internal/usecase/appointment"
	"github.com/agendusalao/salon-api/internal/whatsapp"
)

// Setup wires repositories, use cases and handlers onto the engine.
func Setup(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	wa *whatsapp.Client,
	sessions whatsapp.SessionStore,
	log zerolog.Logger,
) {
	auditor := audit.NewDispatcher(audit.New(db), log)

	apRepo := repository.NewAppointmentGormRepository(db)
	createUC := usecase.NewCreateAppointment(apRepo, auditor)
	completeUC := usecase.NewCompleteAppointment(apRepo, auditor)
	cancelUC := usecase.NewCancelAppointment(apRepo, auditor)

	authH := handlers.NewAuthHandler(db, cfg, auditor, log)
	clientH := handlers.NewClientHandler(db)
	professionalH := handlers.NewProfessionalHandler(db)
	serviceH := handlers.NewServiceHandler(db)
	productH := handlers.NewProductHandler(db)
	appointmentH := handlers.NewAppointmentHandler(db, createUC, completeUC, cancelUC)
	transactionH := handlers.NewTransactionHandler(db)
	publicH := handlers.NewPublicHandler(db)
	whatsappH := handlers.NewWhatsAppHandler(wa, sessions, cfg.WebhookURL, log)
	webhookH := handlers.NewWebhookHandler(sessions, log)
	auditH := handlers.NewAuditLogsHandler(db)

	api := r.Group("/api")

	// Unauthenticated surface.
	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
	}

	public := api.Group("/public")
	{
		public.POST("/cliente/register", publicH.RegisterClient)
		public.GET("/cliente/appointments", publicH.ClientAppointments)
		public.POST("/profissional/register", publicH.RegisterProfessional)
		public.GET("/profissional/list", publicH.ListProfessionals)
	}

	api.POST("/webhook/whatsapp", webhookH.Handle)

	// Everything below requires a bearer token.
	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		secured.GET("/auth/me", authH.Me)

		clients := secured.Group("/clientes")
		{
			clients.GET("", clientH.List)
			clients.POST("", clientH.Create)
			clients.GET("/:id", clientH.Get)
			clients.PUT("/:id", clientH.Update)
			clients.DELETE("/:id", clientH.Delete)
		}

		professionals := secured.Group("/profissionais")
		{
			professionals.GET("", professionalH.List)
			professionals.POST("", professionalH.Create)
			professionals.GET("/:id", professionalH.Get)
			professionals.PUT("/:id", professionalH.Update)
			professionals.DELETE("/:id", professionalH.Delete)
		}

		services := secured.Group("/servicos")
		{
			services.GET("", serviceH.List)
			services.POST("", serviceH.Create)
			services.GET("/:id", serviceH.Get)
			services.PUT("/:id", serviceH.Update)
			services.DELETE("/:id", serviceH.Delete)
		}

		products := secured.Group("/produtos")
		{
			products.GET("", productH.List)
			products.POST("", productH.Create)
			products.GET("/:id", productH.Get)
			products.PUT("/:id", productH.Update)
			products.DELETE("/:id", productH.Delete)
		}

		appointments := secured.Group("/agendamentos")
		{
			appointments.GET("", appointmentH.List)
			appointments.POST("", appointmentH.Create)
			appointments.GET("/:id", appointmentH.Get)
			appointments.PUT("/:id", appointmentH.Update)
			appointments.DELETE("/:id", appointmentH.Delete)
		}

		transactions := secured.Group("/transacoes")
		{
			transactions.GET("", transactionH.List)
			transactions.POST("", transactionH.Create)
			transactions.GET("/dashboard", transactionH.Dashboard)
			transactions.GET("/:id", transactionH.Get)
			transactions.PUT("/:id", transactionH.Update)
			transactions.DELETE("/:id", transactionH.Delete)
		}

		secured.GET("/whatsapp", whatsappH.Handle)
		secured.POST("/whatsapp", whatsappH.Send)

		secured.GET("/audit-logs", auditH.List)
	}
}
