package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/aptitude-quiz/internal/config"
	"github.com/stemsi/aptitude-quiz/internal/handler"
	"github.com/stemsi/aptitude-quiz/internal/middleware"
	"github.com/stemsi/aptitude-quiz/internal/response"
	"github.com/stemsi/aptitude-quiz/internal/service"
)

// assetsMaxAge covers the banner image and stylesheet.
const assetsMaxAge = 24 * time.Hour

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz   *handler.QuizHandler
	WS     *handler.WSHandler
	System *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	ticketService *service.TicketService,
	createLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Static banner image and stylesheet.
	assets := router.Group("/assets")
	assets.Use(middleware.CacheControl(assetsMaxAge))
	{
		assets.Static("/", cfg.AssetsDir)
	}

	router.GET("/health", handlers.System.Health)
	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 1. Public Quiz Group ───────────────────────────────────────────
	public := router.Group("/api/v1/quiz")
	{
		public.GET("/catalog", handlers.Quiz.GetCatalog)
		public.POST("/sessions", createLimiter.Middleware(), handlers.Quiz.CreateSession)
	}

	// ─── 2. Session Group (Ticket) ─────────────────────────────────────
	session := router.Group("/api/v1/quiz/session")
	session.Use(middleware.RequireTicket(ticketService), middleware.NoStore())
	{
		session.GET("", handlers.Quiz.GetSession)
		session.DELETE("", handlers.Quiz.EndSession)
		session.PUT("/mode", handlers.Quiz.ChooseMode)
		session.POST("/start", handlers.Quiz.StartQuiz)
		session.POST("/answer", handlers.Quiz.SubmitAnswer)
		session.POST("/skip", handlers.Quiz.SkipQuestion)
		session.GET("/result", handlers.Quiz.GetResult)
		session.POST("/restart", handlers.Quiz.RestartQuiz)
	}

	// ─── 3. WebSocket Group (Ticket via ?token=) ───────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTicket(ticketService))
	{
		ws.GET("/quiz/stream", handlers.WS.QuizStream)
	}

	return router
}
