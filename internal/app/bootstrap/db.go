// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/limits"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"github.com/dalemusser/grampanchayat/internal/app/system/timeouts"
	"github.com/dalemusser/grampanchayat/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// backendWatchInterval is how often the background watcher pings the backend.
const backendWatchInterval = time.Minute

// ConnectDB builds the REST backend client and checks that the backend
// answers, then keeps watching it. A backend that is down at startup is
// logged, not fatal: the site renders its own "try again later" notices
// until it comes back.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{Read: appCfg.APITimeout, Write: appCfg.APITimeout})
	limits.SetUploadMB(appCfg.UploadMaxMB)

	api, err := apiclient.New(apiclient.Config{
		BaseURL: appCfg.APIBaseURL,
		Timeout: appCfg.APITimeout,
		Logger:  logger,
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("backend client: %w", err)
	}

	deps := DBDeps{
		API:            api,
		ContactLimiter: ratelimit.New("contact", appCfg.ContactRatePerMin, appCfg.ContactRatePerMin),
		LoginLimiter:   ratelimit.NewLoginLimiter(),
		watch:          workers.NewBackendWatch(api, logger, backendWatchInterval, timeouts.Ping()),
	}
	deps.watch.Start()

	// the sweepers outlive ctx, which only bounds startup
	sweepCtx, stop := context.WithCancel(context.Background())
	deps.stopSweepers = stop
	go deps.ContactLimiter.Run(sweepCtx)
	go deps.LoginLimiter.Run(sweepCtx)

	return deps, nil
}

// EnsureSchema has nothing to do: the backend owns its storage.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return nil
}
