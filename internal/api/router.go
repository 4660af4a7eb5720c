package api

import (
	"time"

	chatHandler "meal-deals/internal/api/handlers/chatbot"
	"meal-deals/internal/api/handlers/health"
	recommendHandler "meal-deals/internal/api/handlers/recommend"
	reviewsHandler "meal-deals/internal/api/handlers/reviews"
	"meal-deals/internal/api/middleware"
	"meal-deals/internal/infrastructure/config"
	"meal-deals/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// requestTimeout bound on recommendation and chat handlers
const requestTimeout = 120 * time.Second

// Services dependencies served by the router
type Services struct {
	Recommend  recommendHandler.Recommender
	Reviews    reviewsHandler.Streamer
	Chat       chatHandler.Assistant // nil disables /api/chatbot
	Checks     map[string]health.Checker
	Generation health.Generation
}

// SetupRouter builds the HTTP engine
func SetupRouter(cfg *config.Config, svcs Services) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	healthH := health.NewHandler(cfg.App.Name, cfg.App.Version, svcs.Checks, svcs.Generation)
	router.GET("/", healthH.Root)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	reviewsH := reviewsHandler.NewHandler(svcs.Reviews, cfg.Server.CORSOrigins, cfg.App.Debug)
	reviewGroup := api.Group("/reviews")
	{
		reviewGroup.GET("/menu", middleware.RequestContext(requestTimeout), reviewsH.HandleMenu)
		reviewGroup.GET("/ws/sentiment", middleware.RequestContext(0), reviewsH.HandleSentimentStream)
	}

	// generation-backed endpoints
	generation := api.Group("")
	generation.Use(middleware.RequestContext(requestTimeout))
	if cfg.RateLimit.Enabled {
		generation.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), cfg.RateLimit.Window))
	}
	generation.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())
	{
		recommendH := recommendHandler.NewHandler(svcs.Recommend, cfg.App.Debug)
		generation.POST("/recommend/:branch_id", middleware.BearerAuth(cfg.Auth), recommendH.HandleRecommend)

		if svcs.Chat != nil {
			chatH := chatHandler.NewHandler(svcs.Chat, cfg.App.Debug)
			generation.POST("/chatbot", chatH.HandleChat)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("chat_enabled", svcs.Chat != nil),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
