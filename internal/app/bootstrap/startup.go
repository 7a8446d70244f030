// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the upstream
// clients are built, but before the HTTP handler is constructed.
// Everything this app needs (script bodies, upstream clients) is
// already loaded by ConnectDB, so there is nothing left to warm up.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	return nil
}
