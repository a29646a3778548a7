// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/ratelimit"
	"github.com/dalemusser/grampanchayat/internal/app/system/workers"
)

// DBDeps holds the back-end dependencies for the app. The site keeps no
// database of its own; everything is read from and written to the REST
// backend through API.
type DBDeps struct {
	API *apiclient.Client

	ContactLimiter *ratelimit.Limiter
	LoginLimiter   *ratelimit.LoginLimiter

	watch *workers.BackendWatch

	// stopSweepers ends the limiter sweep goroutines started in ConnectDB.
	stopSweepers context.CancelFunc
}
