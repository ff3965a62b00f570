package router

import (
	"net/http"
	"time"

	"advoga/config"
	"advoga/internal/domain"
	"advoga/internal/handler"
	"advoga/internal/middleware"
	"advoga/internal/repository"
	"advoga/internal/service"
	"advoga/internal/ws"
	"advoga/pkg/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, st storage.Storage) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepository(db)
	lawyerRepo := repository.NewLawyerRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	subsRepo := repository.NewSubscriptionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	leadHub := ws.NewLeadHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, lawyerRepo)
	notifSvc := service.NewNotificationService(notifRepo, leadHub)
	dispatchSvc := service.NewDispatchService(store, notifSvc, cfg.Scoring, cfg.Dispatch)
	referralSvc := service.NewReferralService(store, dispatchSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	caseHandler := handler.NewCaseHandler(caseRepo, referralRepo, paymentRepo, st, cfg.Payment.ReportPriceCents)
	pipelineHandler := handler.NewPipelineHandler(caseRepo, st)
	webhookHandler := handler.NewPaymentWebhookHandler(paymentRepo, caseRepo, dispatchSvc, cfg)
	lawyerHandler := handler.NewLawyerHandler(referralSvc, lawyerRepo, referralRepo, subsRepo, notifRepo)
	adminHandler := handler.NewAdminHandler(dispatchSvc, referralSvc, caseRepo, referralRepo, lawyerRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_lawyers": leadHub.ConnectedLawyers()})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.RegisterUser)
			authGroup.POST("/login", authHandler.LoginUser)
			authGroup.POST("/lawyers/register", authHandler.RegisterLawyer)
			authGroup.POST("/lawyers/login", authHandler.LoginLawyer)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		cases := api.Group("/cases", authMw, middleware.RequireRole(domain.RoleClient))
		{
			cases.POST("", caseHandler.Create)
			cases.GET("", caseHandler.List)
			cases.GET("/:id", caseHandler.Get)
			cases.GET("/:id/report", caseHandler.DownloadReport)
			cases.POST("/:id/checkout", caseHandler.Checkout)
		}

		internal := api.Group("/internal", middleware.InternalOnly(cfg.Payment.InternalToken))
		{
			internal.PUT("/cases/:id/analysis", pipelineHandler.PutAnalysis)
			internal.PUT("/cases/:id/report", pipelineHandler.PutReport)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)

		api.GET("/plans", lawyerHandler.Plans)

		lawyers := api.Group("/lawyers", authMw, middleware.RequireRole(domain.RoleLawyer))
		{
			lawyers.GET("/feed", lawyerHandler.Feed)
			lawyers.GET("/me/stats", lawyerHandler.Stats)
			lawyers.POST("/subscribe", lawyerHandler.Subscribe)
			lawyers.GET("/me/notifications", lawyerHandler.Notifications)
			lawyers.PUT("/me/notifications/:id/read", lawyerHandler.MarkNotificationRead)
		}

		leads := api.Group("/leads", authMw, middleware.RequireRole(domain.RoleLawyer))
		{
			leads.POST("/:case_id/accept", lawyerHandler.AcceptLead)
			leads.POST("/:case_id/reject", lawyerHandler.RejectLead)
		}

		admin := api.Group("/admin", authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/cases/unassignable", adminHandler.UnassignableCases)
			admin.POST("/leads/assign", adminHandler.AssignLead)
			admin.POST("/sweep", adminHandler.Sweep)
			admin.POST("/lawyers/verify", adminHandler.VerifyLawyer)
		}
	}

	// WebSocket (token via query param)
	r.GET("/ws/leads", ws.UpgradeLeadWS(&cfg.JWT, leadHub))

	return r
}
