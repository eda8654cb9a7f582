package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/samlehman617/HeyImHungry/internal/bootstrap"
	"github.com/samlehman617/HeyImHungry/internal/client"
	"github.com/samlehman617/HeyImHungry/internal/config"
	"github.com/samlehman617/HeyImHungry/internal/domain"
	httptransport "github.com/samlehman617/HeyImHungry/internal/http"
	"github.com/samlehman617/HeyImHungry/internal/http/handler"
	httpmiddleware "github.com/samlehman617/HeyImHungry/internal/http/middleware"
	apimiddleware "github.com/samlehman617/HeyImHungry/internal/middleware"
	"github.com/samlehman617/HeyImHungry/internal/repository"
	"github.com/samlehman617/HeyImHungry/internal/server"
	"github.com/samlehman617/HeyImHungry/internal/service"
	"github.com/samlehman617/HeyImHungry/internal/telemetry"
	"github.com/samlehman617/HeyImHungry/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newUserRepository,
			newTokenCodec,
			newClientRegistry,
			newRateLimiter,
			newDiscoveryService,
			service.NewAuthService,
			newExchangeService,
			handler.NewAuthHandler,
			newAuthMiddleware,
			newClientGuard,
			httptransport.NewRouter,
			newHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureSeedUser, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newTokenCodec(cfg config.Config) *token.Codec {
	return token.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenTTL)
}

func newClientRegistry(cfg config.Config) *client.Registry {
	return client.NewRegistry(domain.OAuthClient{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		ProjectID:    cfg.OAuthProjectID,
	})
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM, cfg.RateLimitIdleWindow)
}

func newHTTPServer(router *gin.Engine, cfg config.Config) *server.HTTPServer {
	return server.NewHTTPServer(router, cfg.ShutdownTimeout)
}

func newDiscoveryService() *service.DiscoveryService {
	return &service.DiscoveryService{}
}

func newExchangeService(auth *service.AuthService, clients *client.Registry, codec *token.Codec, cfg config.Config, logger *zap.Logger) *service.ExchangeService {
	return service.NewExchangeService(auth, clients, codec, cfg.RefreshTokenTTL, logger)
}

func newAuthMiddleware(authService *service.AuthService) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{AuthService: authService}
}

func newClientGuard(registry *client.Registry) *httpmiddleware.ClientGuard {
	return &httpmiddleware.ClientGuard{Registry: registry}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
