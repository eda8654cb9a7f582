package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/samlehman617/HeyImHungry/internal/config"
	"github.com/samlehman617/HeyImHungry/internal/domain"
	"github.com/samlehman617/HeyImHungry/internal/service"
)

// EnsureSeedUser creates a configured dev/e2e account at startup if missing.
// It is a no-op unless SEED_USERNAME is set.
func EnsureSeedUser(lc fx.Lifecycle, cfg config.Config, auth *service.AuthService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureSeedUser(ctx, cfg, auth, logger)
		},
	})
}

func ensureSeedUser(ctx context.Context, cfg config.Config, auth *service.AuthService, logger *zap.Logger) error {
	if cfg.SeedUsername == "" {
		return nil
	}
	if cfg.SeedPassword == "" {
		return fmt.Errorf("seed user requires SEED_PASSWORD")
	}

	user, err := auth.Register(ctx, cfg.SeedUsername, cfg.SeedPassword)
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap seed user: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap seed user created",
			zap.String("username", user.Username),
			zap.Int64("user_id", user.ID),
		)
	}
	return nil
}
