package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	docs "github.com/Hy0g0/Cadavre-exquis/docs"
	"github.com/Hy0g0/Cadavre-exquis/internal/config"
	api "github.com/Hy0g0/Cadavre-exquis/internal/http"
	"github.com/Hy0g0/Cadavre-exquis/internal/log"
	"github.com/Hy0g0/Cadavre-exquis/internal/metrics"
	"github.com/Hy0g0/Cadavre-exquis/internal/queue"
	"github.com/Hy0g0/Cadavre-exquis/internal/repo"
)

// @title Cadavre Exquis API
// @version 0.1.0
// @description One collaborative sentence per day.
// @schemes http https
// @BasePath /
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Fatal("create data dir", zap.Error(err))
	}

	store, err := repo.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	var cache *repo.Redis
	if cfg.RedisAddr != "" {
		cache = repo.NewRedis(cfg.RedisAddr, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		defer cache.Close()
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
	}
	defer pub.Close()

	metrics.MustRegister()
	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(store, cache, pub, cfg.RabbitExchange)
	r := api.NewRouter(h, cfg.StaticDir, cfg.RateLimitPerMin)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("story service listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
