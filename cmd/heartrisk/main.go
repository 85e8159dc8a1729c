package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/heartrisk/internal/api"
	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/config"
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/hermes"
	"github.com/MikeSquared-Agency/heartrisk/internal/metrics"
	"github.com/MikeSquared-Agency/heartrisk/internal/processor"
	"github.com/MikeSquared-Agency/heartrisk/internal/slack"
	"github.com/MikeSquared-Agency/heartrisk/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("heartrisk starting", "port", cfg.Port, "workers", cfg.Workers, "shards", cfg.InferenceShards)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := fuzzy.NewEngine(fuzzy.WithShards(cfg.InferenceShards))
	m := metrics.New()

	// Database (optional: without it assessments are scored but not kept)
	var (
		db              *store.Store
		assessmentStore processor.AssessmentStore
		reader          api.AssessmentReader
	)
	if cfg.DatabaseURL != "" {
		if err := store.EnsureSchema(cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		assessmentStore, reader = db, db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, assessments will not be persisted")
	}

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Slack poster (optional: no alerts without it)
	var (
		alerter  processor.Alerter
		notifier batch.Notifier
	)
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		poster := slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		alerter, notifier = poster, poster
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, running without high risk alerts")
	}

	proc := processor.New(engine, assessmentStore, hermesClient, alerter, m, slog.Default())

	if err := hermesClient.Subscribe(hermes.SubjectAssessmentRequested, proc.HandleAssessmentRequested); err != nil {
		slog.Error("failed to subscribe to assessment requests", "error", err)
		os.Exit(1)
	}

	runner := batch.NewRunner(batch.Config{Workers: cfg.Workers}, engine, m, slog.Default()).
		WithPublisher(hermesClient)
	if db != nil {
		runner.WithStore(db)
	}
	if notifier != nil {
		runner.WithNotifier(notifier)
	}

	// HTTP API
	srv := api.NewServer(api.Config{
		Port:           cfg.Port,
		APIToken:       cfg.APIToken,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	}, api.Deps{
		Assessor: proc,
		Reader:   reader,
		Runner:   runner,
		NATS:     hermesClient,
		Metrics:  m,
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := hermesClient.Publish(hermes.SubjectAgentRegistered, hermes.AgentRegistered{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Port:      cfg.Port,
		Workers:   cfg.Workers,
		Shards:    cfg.InferenceShards,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("heartrisk ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("heartrisk stopped")
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
