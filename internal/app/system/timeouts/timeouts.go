// Package timeouts holds the deadlines handlers put on backend calls.
//
// Every handler derives its request context with one of these values before
// calling the REST backend, so a slow backend turns into a network error
// banner instead of a hung page.
//
//   - Ping: health checks against the backend
//   - Read: a single record or a short list for a public page
//   - Page: pages that fan out to several lists at once (home, dashboard)
//   - Write: creates, updates, deletes and moves
//   - Upload: multipart submissions carrying images
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing   = 2 * time.Second
	DefaultRead   = 5 * time.Second
	DefaultPage   = 8 * time.Second
	DefaultWrite  = 10 * time.Second
	DefaultUpload = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	read   = DefaultRead
	page   = DefaultPage
	write  = DefaultWrite
	upload = DefaultUpload
)

// Ping is the deadline for backend health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Read is the deadline for a single read.
func Read() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return read
}

// Page is the deadline for a page that loads several collections together.
func Page() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return page
}

// Write is the deadline for JSON mutations.
func Write() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return write
}

// Upload is the deadline for multipart mutations.
func Upload() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return upload
}

// Config holds timeout values. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Read   time.Duration
	Page   time.Duration
	Write  time.Duration
	Upload time.Duration
}

// Configure overrides timeouts at startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&ping, cfg.Ping)
	set(&read, cfg.Read)
	set(&page, cfg.Page)
	set(&write, cfg.Write)
	set(&upload, cfg.Upload)
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, read, page, write, upload = DefaultPing, DefaultRead, DefaultPage, DefaultWrite, DefaultUpload
}

// Current returns the active configuration for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Read: read, Page: page, Write: write, Upload: upload}
}

// ForWrite picks Upload when the submission carries files.
func ForWrite(hasFiles bool) time.Duration {
	if hasFiles {
		return Upload()
	}
	return Write()
}

// WithTimeout derives a context with a deadline. The returned cancel logs a
// warning when the deadline, rather than the caller, ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "news update")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("backend call timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
