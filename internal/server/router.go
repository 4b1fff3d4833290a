package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/catonzio/plum-backend/internal/http/handlers"
	"github.com/catonzio/plum-backend/internal/http/middleware"
	"github.com/catonzio/plum-backend/internal/platform/envutil"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	AgentHandler    *handlers.AgentHandler
	ChatHandler     *handlers.ChatHandler
	FeedbackHandler *handlers.FeedbackHandler
	QueryHandler    *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if envutil.String("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Cors
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}
	origins := envutil.String("CORS_ALLOW_ORIGINS", "*")
	if origins == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(origins, ",")
	}
	router.Use(cors.New(corsCfg))

	// Service
	plum := router.Group("/plum_chatbot")
	{
		plum.GET("/health", handlers.HealthCheck)
		plum.GET("/query", cfg.QueryHandler.Query)
	}

	// Agent
	agents := router.Group("/agent")
	{
		agents.GET("/list", cfg.AgentHandler.List)
		agents.POST("/invoke", cfg.AgentHandler.Invoke)
		agents.POST("/:agent_id/invoke", cfg.AgentHandler.Invoke)
	}

	// Chat
	chats := router.Group("/chat")
	{
		chats.POST("/new", cfg.ChatHandler.New)
		chats.GET("/:chat_id/close", cfg.ChatHandler.Close)
		chats.DELETE("/:chat_id", cfg.ChatHandler.Delete)
	}

	// Feedback
	router.POST("/feedbacks/new", cfg.FeedbackHandler.New)

	return router
}
