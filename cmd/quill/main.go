package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/virio-ai/quill/internal/api"
	"github.com/virio-ai/quill/internal/config"
	"github.com/virio-ai/quill/internal/events"
	"github.com/virio-ai/quill/internal/openai"
	"github.com/virio-ai/quill/internal/pipeline"
	"github.com/virio-ai/quill/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("quill starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gateway. A missing key is a deployment defect but not fatal at boot:
	// the API surfaces it as a configuration error per request.
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY not set — pipeline operations will fail until configured")
	}
	llm := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	slog.Info("openai client ready", "model", cfg.OpenAIModel)

	// Database sink (optional — quill works without it, just no history)
	var sink pipeline.Sink
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		sink = db
		slog.Info("database connected")
	} else {
		slog.Warn("database not configured — running without persistence")
	}

	// NATS events (optional)
	var ev *events.Client
	if cfg.NatsURL != "" {
		var err error
		ev, err = events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer ev.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without pipeline events")
	}

	pipe := pipeline.New(llm, sink, ev, slog.Default())

	srv := api.NewServer(cfg.Port, pipe, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("quill ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("quill stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
