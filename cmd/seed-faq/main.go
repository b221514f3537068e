package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/repository"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/config"
	"github.com/noah-isme/college-adp-api/pkg/database"
	"github.com/noah-isme/college-adp-api/pkg/logger"
)

// seed-faq replaces the chatbot knowledge base with the built-in entries.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	chatbot := service.NewChatbotService(repository.NewFAQRepository(db), db, nil, nil, 0, nil, nil, logr)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := chatbot.Seed(ctx, service.DefaultFAQEntries())
	if err != nil {
		logr.Fatal("failed to seed faq entries", zap.Error(err))
	}
	logr.Info("faq entries seeded", zap.Int("count", count))
}
