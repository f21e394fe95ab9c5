package server

import (
	"context"
	"net/http"

	"github.com/taka1452/klasly-app-sub001/internal/attendance"
	"github.com/taka1452/klasly-app-sub001/internal/auth"
	"github.com/taka1452/klasly-app-sub001/internal/booking"
	"github.com/taka1452/klasly-app-sub001/internal/class"
	"github.com/taka1452/klasly-app-sub001/internal/config"
	"github.com/taka1452/klasly-app-sub001/internal/credit"
	"github.com/taka1452/klasly-app-sub001/internal/email"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
	"github.com/taka1452/klasly-app-sub001/internal/subscription"
	"github.com/taka1452/klasly-app-sub001/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	studioRepo := studio.NewRepository(db)
	memberRepo := member.NewRepository(db)
	classRepo := class.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	userRepo := user.NewRepository(db)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	studioHandler := studio.NewHandler(studioRepo)
	memberHandler := member.NewHandler(db)
	classHandler := class.NewHandler(db)
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, classRepo, memberRepo, studioRepo, emailService))
	creditHandler := credit.NewHandler(
		credit.NewService(creditRepo, memberRepo, studioRepo))
	attendanceHandler := attendance.NewHandler(
		attendance.NewService(attendanceRepo, bookingRepo, classRepo, memberRepo, studioRepo))
	subscriptionHandler := subscription.NewHandler(
		subscription.NewService(studioRepo, subscription.NopGateway{}, emailService, cfg.GracePeriodDays),
		cfg.SweepToken)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.POST("/webhooks/billing", subscriptionHandler.Webhook)
	router.POST("/internal/sweeps/grace", subscriptionHandler.SweepGrace)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/plans/access", studioHandler.GetAccess)

		protected.GET("/sessions", classHandler.ListSessions)
		protected.GET("/sessions/:sessionID", classHandler.GetSession)
		protected.GET("/sessions/:sessionID/waitlist", bookingHandler.ListWaitlist)
		protected.POST("/sessions/:sessionID/book", bookingHandler.Book)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)
		protected.GET("/bookings", bookingHandler.ListMy)
	}

	staffMiddleware := auth.RequireRole(auth.RoleOwner, auth.RoleStaff)
	staff := router.Group("/")
	staff.Use(authMiddleware, staffMiddleware)
	{
		staff.GET("/members", memberHandler.List)
		staff.POST("/members", memberHandler.Create)
		staff.GET("/members/:memberID", memberHandler.Get)
		staff.POST("/members/:memberID/status", memberHandler.UpdateStatus)
		staff.GET("/members/:memberID/credits", creditHandler.Balance)

		staff.POST("/sessions", classHandler.CreateSession)
		staff.POST("/sessions/:sessionID/cancel", classHandler.CancelSession)
		staff.GET("/sessions/:sessionID/bookings", bookingHandler.ListBySession)
		staff.POST("/sessions/:sessionID/dropins", attendanceHandler.RecordDropIn)
		staff.GET("/sessions/:sessionID/dropins", attendanceHandler.ListDropIns)

		staff.POST("/credits/deduct", creditHandler.Deduct)
	}

	ownerMiddleware := auth.RequireRole(auth.RoleOwner)
	owner := router.Group("/")
	owner.Use(authMiddleware, ownerMiddleware)
	{
		owner.POST("/members/:memberID/credits/adjust", creditHandler.Adjust)
		owner.POST("/bookings/:bookingID/attendance", attendanceHandler.Toggle)
		owner.POST("/subscription/cancel", subscriptionHandler.Cancel)
		owner.POST("/subscription/reset", subscriptionHandler.ResetToTrial)
	}

	router.GET("/health", Health)
	router.GET("/test-email", TestEmail(emailService))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
