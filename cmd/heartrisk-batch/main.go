package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/config"
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/hermes"
	"github.com/MikeSquared-Agency/heartrisk/internal/intake"
	"github.com/MikeSquared-Agency/heartrisk/internal/slack"
	"github.com/MikeSquared-Agency/heartrisk/internal/store"
)

func main() {
	cfg := config.Load()

	in := flag.String("in", "", "path to the dataset CSV")
	out := flag.String("out", "", "write the full report as JSON to this path")
	workers := flag.Int("workers", cfg.Workers, "rows scored concurrently")
	shards := flag.Int("shards", cfg.InferenceShards, "goroutines per inference")
	persist := flag.Bool("persist", false, "store the run in DATABASE_URL")
	publish := flag.Bool("publish", false, "publish heartrisk.batch.completed on NATS_URL")
	notify := flag.Bool("slack", false, "post the summary to SLACK_ALERTS_CHANNEL")
	logLevel := flag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: heartrisk-batch -in data.csv [-out report.json] [-workers N] [-persist] [-publish] [-slack]")
		os.Exit(2)
	}

	// Logs go to stderr so stdout carries only the summary.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open dataset: %v\n", err)
		os.Exit(1)
	}
	rows, err := intake.ReadCSV(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read dataset: %v\n", err)
		os.Exit(1)
	}

	engine := fuzzy.NewEngine(fuzzy.WithShards(*shards))
	runner := batch.NewRunner(batch.Config{Workers: *workers}, engine, nil, logger)

	if *persist {
		if cfg.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "-persist requires DATABASE_URL")
			os.Exit(2)
		}
		if err := store.EnsureSchema(cfg.DatabaseURL); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		runner.WithStore(db)
	}

	if *publish {
		hc, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect NATS: %v\n", err)
			os.Exit(1)
		}
		defer hc.Close()
		runner.WithPublisher(hc)
	}

	if *notify {
		if cfg.SlackBotToken == "" || cfg.SlackChannel == "" {
			fmt.Fprintln(os.Stderr, "-slack requires SLACK_BOT_TOKEN and SLACK_ALERTS_CHANNEL")
			os.Exit(2)
		}
		runner.WithNotifier(slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, logger))
	}

	report, err := runner.Run(ctx, *in, rows)
	if err != nil && report == nil {
		fmt.Fprintf(os.Stderr, "batch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(batch.FormatSummary(report))
	fmt.Println()
	printSample(report)

	if *out != "" {
		if err := report.Save(*out); err != nil {
			fmt.Fprintf(os.Stderr, "save report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report: %s\n", *out)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "batch finished with errors: %v\n", err)
		os.Exit(1)
	}
}

func printSample(report *batch.Report) {
	fmt.Printf("%-6s %-6s %-4s %-9s %-6s %-4s %-8s %-8s %s\n",
		"line", "age", "cp", "trestbps", "chol", "fbs", "thalach", "risk", "level")
	for _, r := range batch.Sample(report.Results, 10) {
		rec := r.Record
		fmt.Printf("%-6d %-6.0f %-4.0f %-9.0f %-6.0f %-4.0f %-8.0f %-8.2f %s",
			r.Line, rec.Age, rec.ChestPainType, rec.RestingBP, rec.Cholesterol,
			rec.FastingBloodSugar, rec.MaxHeartRate, r.Score, r.Level)
		if r.Error != "" {
			fmt.Printf(" (%s)", r.Error)
		}
		fmt.Println()
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
