package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	SlackBotToken   string
	SlackChannel    string
	APIToken        string
	Workers         int
	InferenceShards int
	MaxUploadMB     int
}

func Load() Config {
	return Config{
		Port:            envInt("HEARTRISK_PORT", 8760),
		NatsURL:         envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		SlackBotToken:   envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:    envStr("SLACK_ALERTS_CHANNEL", ""),
		APIToken:        envStr("HEARTRISK_API_TOKEN", ""),
		Workers:         envInt("HEARTRISK_WORKERS", 4),
		InferenceShards: envInt("HEARTRISK_INFERENCE_SHARDS", 1),
		MaxUploadMB:     envInt("HEARTRISK_MAX_UPLOAD_MB", 10),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
