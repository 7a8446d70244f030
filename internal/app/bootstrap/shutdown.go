// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown tears down resources on exit. The upstream clients hold no
// connections that outlive their requests, so there is nothing to close.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	logger.Info("strap shutting down")
	return nil
}
