package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Miltondz/one-page-rpg-sub001/internal/config"
	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/internal/handlers"
	"github.com/Miltondz/one-page-rpg-sub001/internal/logger"
	"github.com/Miltondz/one-page-rpg-sub001/internal/metrics"
	"github.com/Miltondz/one-page-rpg-sub001/internal/services"
	"github.com/Miltondz/one-page-rpg-sub001/internal/storage"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/dialogue"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting NPC social API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	factions, err := loadFactions(cfg.FactionsFile)
	if err != nil {
		log.Error("Failed to load faction table", "error", err, "file", cfg.FactionsFile)
		os.Exit(1)
	}

	llmService := newLLMService(cfg, log)
	var generator dialogue.Generator
	if llmService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := llmService.InitModel(ctx, cfg.ModelName)
		cancel()
		if err != nil {
			log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
			os.Exit(1)
		}
		generator = services.NewGenerator(llmService, cfg.GenerationTimeout, cfg.GenerationRate, cfg.GenerationBurst, log)
	} else {
		log.Info("No LLM provider configured, dialogue will be procedural")
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	m := metrics.New()
	registry := games.NewRegistry(func() *social.Context {
		return social.New(social.Options{
			Factions:      factions,
			Generator:     generator,
			Seed:          cfg.DialogueSeed,
			ContentRating: cfg.ContentRating,
			Observer:      m,
			Logger:        log,
		})
	}, store, log)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.RouterConfig{
			Registry: registry,
			Storage:  store,
			LLM:      llmService,
			Metrics:  m,
			Logger:   log,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// newLLMService returns nil when generation is disabled. The provider
// settings were validated by config.Load.
func newLLMService(cfg *config.Config, log *slog.Logger) services.LLMService {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		log.Info("Using Anthropic LLM provider")
		return services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
	case config.ProviderVenice:
		log.Info("Using Venice LLM provider")
		return services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName)
	case config.ProviderOpenAI:
		log.Info("Using OpenAI-compatible LLM provider", "base_url", cfg.OpenAIBaseURL)
		return services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, log)
	default:
		return nil
	}
}

func loadFactions(path string) (*reputation.FactionTable, error) {
	if path == "" {
		return reputation.DefaultFactionTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open faction file: %w", err)
	}
	defer f.Close()
	return reputation.LoadFactionTable(f)
}
