// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/grampanchayat/internal/app/resources"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the backend
// client is built, but before the HTTP handler is built. It is the place
// to load shared resources (like templates).
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	for _, code := range fieldmodel.Codes() {
		logger.Debug("ui catalog loaded", zap.String("lang", code), zap.Int("keys", len(i18n.Default().Keys(code))))
	}
	return nil
}
