package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/delphython/fish-shop/internal/application"
	"github.com/delphython/fish-shop/internal/config"
	"github.com/delphython/fish-shop/internal/domain/ports/repository"
	"github.com/delphython/fish-shop/internal/infra/commerce"
	pg "github.com/delphython/fish-shop/internal/infra/db/postgres"
	opshttp "github.com/delphython/fish-shop/internal/infra/http"
	"github.com/delphython/fish-shop/internal/infra/logging"
	"github.com/delphython/fish-shop/internal/infra/metrics"
	red "github.com/delphython/fish-shop/internal/infra/redis"
	tele "github.com/delphython/fish-shop/internal/infra/telegram"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Redis state store ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	stateRepo := red.NewStateRepo(redisClient)

	// ---- Commerce backend ----
	shop := commerce.NewClient(&cfg.Commerce, logger)

	// ---- Checkout journal (optional) ----
	var checkoutRepo repository.CheckoutRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 5)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		checkoutRepo = pg.NewCheckoutRepo(pool)
	} else {
		logger.Warn().Msg("database.url not set, checkout journal disabled")
	}

	// ---- Telegram + Dispatcher ----
	bot, err := tele.NewBot(&cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	disp := application.NewDispatcher(stateRepo, shop, bot, checkoutRepo, logger)
	go func() {
		if err := bot.StartPolling(ctx, disp); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Operator HTTP server ----
	auth := opshttp.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, 30*time.Minute)
	srv := opshttp.NewServer(checkoutRepo, cfg.Admin.APIKey, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("operator http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
