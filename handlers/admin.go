package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/data-service/internal/storage"
	"github.com/gogotex/data-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set at build time with -ldflags "-X github.com/gogotex/data-service/handlers.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// AdminOptions configures the operational endpoints.
type AdminOptions struct {
	// Checks run on /ready; a failing check makes the service not ready.
	Checks map[string]Check
	// Snapshotter backs POST /snapshot; nil answers 503.
	Snapshotter *storage.Snapshotter
	// Metrics serves /metrics; defaults to the default Prometheus registry.
	Metrics http.Handler
	// Started is reported as uptime.
	Started time.Time
}

// RegisterAdminRoutes mounts health, readiness, metrics, version, swagger and
// snapshot endpoints. They live on the admin listener, never on the public one.
func RegisterAdminRoutes(r *gin.Engine, opts AdminOptions) {
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 only when every check passes
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}
		for name, check := range opts.Checks {
			if check == nil {
				deps[name] = true
				continue
			}
			if err := check(c.Request.Context()); err != nil {
				logger.Warnf("readiness check %s failed: %v", name, err)
				deps[name] = false
				ready = false
				continue
			}
			deps[name] = true
		}
		uptime := time.Since(opts.Started).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	r.GET("/metrics", gin.WrapH(opts.Metrics))

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"commit":     Commit,
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		})
	})

	r.POST("/snapshot", func(c *gin.Context) {
		if opts.Snapshotter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage not configured"})
			return
		}
		snap, err := opts.Snapshotter.Take(c.Request.Context())
		if err != nil {
			logger.Errorf("snapshot failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot failed"})
			return
		}
		logger.Infof("snapshot %s written (%d documents, %d bytes)", snap.Key, snap.Documents, snap.Bytes)
		c.JSON(http.StatusCreated, snap)
	})

	RegisterSwagger(r)
}
