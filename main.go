package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/loidinhm31/cham-lang-sub002/internal/ai"
	"github.com/loidinhm31/cham-lang-sub002/internal/config"
	"github.com/loidinhm31/cham-lang-sub002/internal/database"
	"github.com/loidinhm31/cham-lang-sub002/internal/excel"
	"github.com/loidinhm31/cham-lang-sub002/internal/scheduler"
	"github.com/loidinhm31/cham-lang-sub002/internal/server"
)

func setupLogger(env string) *zap.Logger {
	var logger *zap.Logger
	if env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	importPath := flag.String("import", "", "import vocabulary from an .xlsx file and exit")
	importLang := flag.String("language", "en", "language for imported vocabulary")
	flag.Parse()

	// A missing .env is fine; config falls back to defaults.
	_ = godotenv.Load()

	cfg, err := config.Init()
	if err != nil {
		log.Fatal("failed to load config: " + err.Error())
	}

	logger := setupLogger(cfg.Env)
	defer logger.Sync()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		logger.Fatal("failed to init db", zap.Error(err))
	}
	defer db.Close()

	repos := database.NewRepository(db)

	if *importPath != "" {
		runImport(logger, repos, cfg, *importPath, *importLang)
		return
	}

	srv := server.New(cfg.HTTP, server.Stores{
		Vocabulary: repos.VocabularyRepository,
		Progress:   repos.ProgressRepository,
		Settings:   repos.SettingsRepository,
		Sessions:   repos.SessionRepository,
	}, logger)

	var snapshots *scheduler.Scheduler
	if cfg.Snapshot.Enabled {
		snapshots = scheduler.New(repos.ProgressRepository, repos.StatisticsRepository,
			repos.SettingsRepository, logger)
		if err := snapshots.Start(cfg.Snapshot.At); err != nil {
			logger.Fatal("failed to start snapshot scheduler", zap.Error(err))
		}
		defer snapshots.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runImport(logger *zap.Logger, repos database.Repository, cfg *config.Config, path, language string) {
	ctx := context.Background()

	var gen excel.ExampleSource
	if cfg.AI.APIKey != "" {
		gen = ai.New(cfg.AI.APIKey, cfg.AI.Model)
	}

	result, err := excel.ImportWords(ctx, repos.VocabularyRepository, gen,
		excel.DefaultImportConfig(path, language))
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import finished",
		zap.Int("processed", result.TotalProcessed),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	for _, msg := range result.Errors {
		logger.Warn("import row error", zap.String("detail", msg))
	}
}
