package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/samlehman617/HeyImHungry/internal/config"
	"github.com/samlehman617/HeyImHungry/internal/http/handler"
	httpmiddleware "github.com/samlehman617/HeyImHungry/internal/http/middleware"
	"github.com/samlehman617/HeyImHungry/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, authMiddleware *httpmiddleware.Auth, clientGuard *httpmiddleware.ClientGuard, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/users", authHandler.Register)
		api.GET("/me", authMiddleware.RequireBearer, authHandler.Me)
	}

	oauth := r.Group("/oauth", clientGuard.RequireClientID)
	{
		oauth.GET("/login", authHandler.DelegatedLoginPage)
		oauth.POST("/login", authHandler.DelegatedLogin)
		oauth.POST("/exchange", authHandler.ExchangeToken)
	}

	r.GET("/.well-known/oauth-authorization-server", authHandler.Metadata)

	return r
}
