package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChandanDev27/Interview-backend/internal/analysis/facial"
	"github.com/ChandanDev27/Interview-backend/internal/analysis/speech"
	"github.com/ChandanDev27/Interview-backend/internal/api"
	"github.com/ChandanDev27/Interview-backend/internal/clients"
	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/database"
	"github.com/ChandanDev27/Interview-backend/internal/media"
	"github.com/ChandanDev27/Interview-backend/internal/report"
	"github.com/ChandanDev27/Interview-backend/internal/storage"
	"github.com/ChandanDev27/Interview-backend/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, disconnect, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Error("mongodb unavailable", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := disconnect(shutdownCtx); err != nil {
			log.Warn("mongodb disconnect failed", "error", err)
		}
	}()

	assets, err := storage.NewLocalStore(cfg.TempDir)
	if err != nil {
		log.Error("temp storage unavailable", "error", err)
		os.Exit(1)
	}

	intake, err := media.NewIntake(assets, log, cfg.Thresholds.MinDurationSec)
	if err != nil {
		log.Error("media intake unavailable", "error", err)
		os.Exit(1)
	}

	extractor, err := facial.NewExtractor(clients.NewEmotionClient(cfg.EmotionServiceURL), log)
	if err != nil {
		log.Error("frame extractor unavailable", "error", err)
		os.Exit(1)
	}

	analyzer := speech.NewAnalyzer(clients.NewSpeechClient(cfg.SpeechServiceURL), log)
	store := database.NewInterviewStore(db)
	pool := workers.NewPool(cfg.AnalysisWorkers)

	assembler := report.NewAssembler(intake, extractor, analyzer, store, assets, pool, log, cfg.Thresholds)
	app := api.NewApp(assembler, store, cfg.MaxUploadSize, log)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info("server starting",
		"addr", addr,
		"workers", cfg.AnalysisWorkers,
		"max_upload_size", cfg.MaxUploadSize)

	if err := http.ListenAndServe(addr, api.NewRouter(app)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
