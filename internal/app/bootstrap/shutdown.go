// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work. The backend client holds no open
// connections that need closing beyond the shared transport.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.stopSweepers != nil {
		logger.Info("stopping rate limiter sweepers")
		deps.stopSweepers()
	}
	if deps.watch != nil {
		deps.watch.Stop()
	}
	return nil
}
