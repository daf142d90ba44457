package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/korjavin/fridgechef/pkg/api"
	"github.com/korjavin/fridgechef/pkg/config"
	"github.com/korjavin/fridgechef/pkg/fridge"
	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/menu"
	"github.com/korjavin/fridgechef/pkg/openai"
	"github.com/korjavin/fridgechef/pkg/reconcile"
	"github.com/korjavin/fridgechef/pkg/state"
	"github.com/korjavin/fridgechef/pkg/storage"
	"github.com/korjavin/fridgechef/pkg/telegram"
)

func main() {
	if err := run(); err != nil {
		logger.Global.Error("%v", err)
		_ = logger.Global.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := logger.Configure(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}
	log := logger.Global
	defer func() { _ = log.Sync() }()
	log.Info("Starting FridgeChef...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	store.StartGCRoutine(ctx, cfg.GCInterval)

	reconciler := reconcile.New(reconcile.WithLiquidKeywords(cfg.LiquidKeywords))
	fridgeService := fridge.New(store, reconciler)

	// Both nil when no key is set, so menus fall back to the built-in recipe
	var (
		suggester menu.Suggester
		reader    telegram.ItemReader
	)
	if cfg.OpenAIAPIKey != "" {
		client := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel, cfg.AITimeout)
		suggester, reader = client, client
	} else {
		log.Warn("OPENAI_API_KEY not set, only the fallback recipe will be suggested")
	}

	menuService, err := menu.New(store, fridgeService, suggester, cfg.MenuCacheTTL)
	if err != nil {
		return err
	}
	defer menuService.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.New(reconciler, fridgeService, menuService, cfg.MenuCount).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 2)
	go func() {
		log.Info("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	if cfg.BotToken != "" {
		bot, err := telegram.New(cfg.BotToken)
		if err != nil {
			return err
		}
		handlers := telegram.NewHandlers(fridgeService, menuService, reader, state.New(state.DefaultTTL), cfg.MenuCount)
		commands, callbacks, fallback := handlers.Routes(ctx, bot)
		go func() {
			log.Info("Bot is now running")
			if err := bot.Start(ctx, commands, callbacks, fallback); err != nil {
				errs <- err
			}
		}()
	} else {
		log.Info("BOT_TOKEN not set, Telegram bot disabled")
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-errs:
		log.Error("Server error: %v", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
