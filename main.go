package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/data-service/handlers"
	"github.com/gogotex/data-service/internal/config"
	"github.com/gogotex/data-service/internal/database"
	"github.com/gogotex/data-service/internal/document/handler"
	"github.com/gogotex/data-service/internal/document/service"
	"github.com/gogotex/data-service/internal/storage"
	"github.com/gogotex/data-service/pkg/logger"
	"github.com/gogotex/data-service/pkg/metrics"
	"github.com/gogotex/data-service/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

const shutdownTimeout = 10 * time.Second

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(fs)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Configure(cfg.Server.Environment)
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	checks := map[string]handlers.Check{}

	// one client for the whole process; the driver pools and reconnects
	var svc service.Service
	var client *mongo.Client
	switch cfg.MongoDB.Backend {
	case config.BackendMemory:
		logger.Warnf("using in-memory document store; data is lost on exit")
		svc = service.NewMemoryService()
	default:
		logger.Infof("mongo target %s database=%s collection=%s", cfg.MongoDB.Settings.Redacted(), cfg.MongoDB.Database, cfg.MongoDB.Collection)
		c, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return err
		}
		client = c
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		// failures here only warn: the first request reports them
		if err := database.PingMongo(ctx, client, cfg.MongoDB.Timeout); err != nil {
			logger.Warnf("MongoDB not reachable at startup: %v", err)
		} else {
			logger.Infof("connected to MongoDB")
		}
		checks["mongo"] = func(ctx context.Context) error {
			return database.PingMongo(ctx, client, 2*time.Second)
		}
		svc = service.NewMongoService(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection))
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if err := metrics.RegisterCollectors(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	servers := []*http.Server{{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      newPublicRouter(cfg, svc, rdb),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}}

	if cfg.Server.AdminPort != "" {
		var snap *storage.Snapshotter
		if cfg.MinIO.Enabled() {
			ms, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
			if err != nil {
				logger.Warnf("snapshot export disabled: %v", err)
			} else {
				snap = storage.NewSnapshotter(ms, svc, time.Hour)
			}
		}
		admin := gin.New()
		admin.Use(gin.Recovery())
		handlers.RegisterAdminRoutes(admin, handlers.AdminOptions{Checks: checks, Snapshotter: snap, Started: startTime})
		servers = append(servers, &http.Server{
			Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.AdminPort),
			Handler:      admin,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		})
	}

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			logger.Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Infof("shutting down")
	case serveErr = <-errc:
		logger.Errorf("server failed: %v", serveErr)
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warnf("shutdown %s: %v", srv.Addr, err)
		}
	}
	return serveErr
}

// newPublicRouter builds the engine serving exactly GET /, GET /data and POST /data.
func newPublicRouter(cfg *config.Config, svc service.Service, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// /data/ is not a route; answer 404 instead of redirecting to /data
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.Metrics())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	handler.New(svc, cfg.Server.MaxBodyBytes).Register(r)
	return r
}
