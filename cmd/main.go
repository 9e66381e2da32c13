package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visual-search/config"
	"visual-search/internal/api/httpapi"
	telegram "visual-search/internal/api/telegram"
	"visual-search/internal/container"
	"visual-search/internal/domain/port"
	"visual-search/internal/infrastructure/cache"
	"visual-search/internal/infrastructure/recognition"
	"visual-search/internal/infrastructure/storage"
	"visual-search/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Клиент сервиса распознавания
	recognizer := recognition.NewClient(cfg.ProviderBaseURL, nil)

	// Кэш похожих товаров: память, а при наличии БД ещё и PostgreSQL
	var similarCache port.SimilarityCache = cache.NewMemoryCache(cfg.SimilarCacheTTL)
	if cfg.DatabaseURL != "" {
		db, err := cache.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		pg := cache.NewPostgresCache(db, cfg.SimilarCacheTTL)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}
		similarCache = cache.NewTiered(similarCache, pg)
		log.Println("Similarity cache: memory + postgres")
	}

	// Собираем сервисы приложения
	appContainer := container.New(storage.NewMemorySessionRepository(), recognizer, similarCache, vision.NewGoCVPreviewer())
	defer appContainer.Close()

	api := httpapi.NewServer(appContainer)
	api.StartSessionSweeper(ctx, cfg.SessionIdleTTL)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	if cfg.TelegramToken == "" {
		log.Println("TELEGRAM_TOKEN is not set, bot is disabled")
		<-ctx.Done()
	} else {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.StorefrontURL)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		log.Println("Bot is running...")
		if err := bot.Run(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
