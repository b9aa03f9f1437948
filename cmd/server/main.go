package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	assistant "github.com/schedmate/go-assistant"
	"github.com/schedmate/go-assistant/src/calendar"
	"github.com/schedmate/go-assistant/src/config"
	"github.com/schedmate/go-assistant/src/memory"
	"github.com/schedmate/go-assistant/src/models"
	"github.com/schedmate/go-assistant/src/server"
	"github.com/schedmate/go-assistant/src/tools"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	api, err := calendar.NewGoogleAPI(ctx, cfg.GoogleCredsJSON, cfg.CalendarID, cfg.Timezone)
	if err != nil {
		log.Fatalf("failed to connect to Google Calendar: %v", err)
	}
	sched := calendar.NewScheduler(api, cfg.Location())

	model, err := models.NewLLMProvider(ctx, cfg.Provider, cfg.Model, "")
	if err != nil {
		log.Fatalf("failed to create %s model: %v", cfg.Provider, err)
	}
	model = models.TryCreateCachedLLM(model)

	transcripts, err := memory.Open(ctx, memory.Options{
		Backend:         cfg.MemoryBackend,
		DSN:             cfg.MemoryDSN,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
	})
	if err != nil {
		log.Fatalf("failed to open transcript store: %v", err)
	}
	defer transcripts.Close()

	agent, err := assistant.New(assistant.Options{
		Model: model,
		Tools: tools.CalendarTools(sched, tools.Conventions{
			CurrentYear:  cfg.CurrentYear,
			CurrentMonth: cfg.CurrentMonth,
		}),
		Transcripts:     transcripts,
		TranscriptLimit: cfg.TranscriptLimit,
	})
	if err != nil {
		log.Fatalf("failed to build assistant: %v", err)
	}

	logger.Info("calendar assistant ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("calendar", cfg.CalendarID),
		zap.String("timezone", cfg.Timezone))

	srv := server.New(agent, logger)
	if err := srv.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
