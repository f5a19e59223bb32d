package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/zara_bot/internal/ai"
	"github.com/Vovarama1992/zara_bot/internal/config"
	"github.com/Vovarama1992/zara_bot/internal/delivery"
	"github.com/Vovarama1992/zara_bot/internal/domain"
	"github.com/Vovarama1992/zara_bot/internal/error_notificator"
	"github.com/Vovarama1992/zara_bot/internal/infra"
	"github.com/Vovarama1992/zara_bot/internal/ports"
	"github.com/Vovarama1992/zara_bot/internal/telegram"
	"github.com/Vovarama1992/zara_bot/internal/webhook"
)

const service = "zara_bot"

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogLevel != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalf("bad LOG_LEVEL %q: %v", cfg.LogLevel, err)
		}
		zapCfg.Level = lvl
	}
	baseLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()

	sugar := baseLogger.Sugar().With("service", service)
	zl := logger.NewZapLogger(sugar)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// =========================================================================
	// PIPELINE
	// =========================================================================

	pipeline, cleanup, err := buildPipeline(ctx, cfg, httpClient, sugar, zl)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}
	defer cleanup()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	handler := delivery.NewWebhookHandler(pipeline, zl)
	router := delivery.NewRouter(handler, cfg.WebhookPath)

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.CompletionTimeout+5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("shutdown error", "error", err)
		}
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + srv.Addr + cfg.WebhookPath,
		Service: service,
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	sugar.Infow("server stopped")
}

// buildPipeline собирает зависимости. Без обязательных секретов внешние
// клиенты не создаются: сервер поднимается и отвечает 500 на каждый апдейт.
func buildPipeline(ctx context.Context, cfg config.Config, httpClient *http.Client, sugar *zap.SugaredLogger, zl *logger.ZapLogger) (*webhook.Pipeline, func(), error) {
	if err := cfg.Validate(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "configuration is incomplete, serving configuration errors",
			Service: service,
			Error:   err,
		})
		return webhook.New(cfg, webhook.Deps{Log: sugar}), func() {}, nil
	}

	store, closeStore := openStore(ctx, cfg, zl)

	sender, err := telegram.NewSender(cfg.BotToken, "", httpClient)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("init telegram bot: %w", err)
	}
	sugar.Infow("telegram bot authorized", "username", sender.Username())

	if cfg.WebhookURL != "" {
		if err := sender.RegisterWebhook(cfg.WebhookURL); err != nil {
			zl.Log(logger.LogEntry{
				Level:   "warn",
				Message: "setWebhook failed",
				Service: service,
				Error:   err,
			})
		}
	}

	completions := ai.NewClient(ai.Options{
		APIKey:  cfg.CompletionAPIKey,
		BaseURL: cfg.CompletionBaseURL,
		Model:   cfg.CompletionModel,
		Timeout: cfg.CompletionTimeout,
	})

	var alerts webhook.Alerter
	if cfg.AdminChatID != 0 {
		alerts = error_notificator.NewService(error_notificator.NewInfra(sender, cfg.AdminChatID))
	}

	pipeline := webhook.New(cfg, webhook.Deps{
		Users:         domain.NewUserRegistry(store),
		Completions:   completions,
		Conversations: domain.NewConversationService(store),
		Replies:       sender,
		Archive:       openArchive(ctx, cfg, zl),
		Alerts:        alerts,
		Log:           sugar,
	})
	return pipeline, closeStore, nil
}

// openStore не валит процесс: без хранилища бот продолжает отвечать
func openStore(ctx context.Context, cfg config.Config, zl *logger.ZapLogger) (ports.Store, func()) {
	store, err := infra.OpenStore(ctx, cfg)
	if err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "failed to open store " + string(cfg.StoreDriver()) + ", persistence disabled",
			Service: service,
			Error:   err,
		})
		store = infra.DisabledStore()
	}
	return store, func() { _ = store.Close() }
}

func openArchive(ctx context.Context, cfg config.Config, zl *logger.ZapLogger) ports.ExchangeArchive {
	if !cfg.ArchiveEnabled() {
		return nil
	}
	storage, err := infra.NewS3Client(ctx, infra.S3Options{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
	})
	if err != nil {
		zl.Log(logger.LogEntry{
			Level:   "warn",
			Message: "exchange archive disabled",
			Service: service,
			Error:   err,
		})
		return nil
	}
	return domain.NewArchiveService(storage)
}
