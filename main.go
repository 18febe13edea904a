package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogotex/pingbot/handlers"
	"github.com/gogotex/pingbot/internal/app"
	"github.com/gogotex/pingbot/internal/config"
	"github.com/gogotex/pingbot/internal/tokens"
	"github.com/gogotex/pingbot/pkg/logger"
	"github.com/gogotex/pingbot/pkg/metrics"
	"github.com/gogotex/pingbot/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s settings=%s outbox=%s redis=%v", cfg.Store.Backend, cfg.Settings.Backend, cfg.Outbox.Backend, cfg.Redis.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open backends: %v", err)
	}
	defer deps.Close()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when every configured backend answers
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		checks := readiness(c.Request.Context(), deps)
		for _, ok := range checks {
			ready = ready && ok
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": checks, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	bot := r.Group("/")
	if cfg.Webhook.Secret != "" {
		ver, err := tokens.NewVerifier(cfg.Webhook.Secret)
		if err != nil {
			logger.Fatalf("failed to create webhook verifier: %v", err)
		}
		bot.Use(middleware.AuthMiddleware(ver))
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			bot.Use(middleware.RedisRateLimitMiddleware(deps.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			bot.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handlers.NewBotHandler(deps.Dispatcher(cfg), deps.Saver, deps.Deliveries).Register(bot)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting ping bot on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func readiness(ctx context.Context, d *app.Deps) map[string]bool {
	out := map[string]bool{"store": d.Pages != nil}
	if d.Redis != nil {
		out["redis"] = d.Redis.Ping(ctx).Err() == nil
	}
	if d.Mongo != nil {
		out["mongo"] = d.Mongo.Ping(ctx, nil) == nil
	}
	return out
}
