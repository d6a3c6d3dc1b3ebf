package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	OllamaURL   string
	Model       string
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	APIToken    string
	LogLevel    string
}

// Load reads configuration from the environment. NATS and the database are
// optional collaborators: empty values disable them. Values are threaded
// explicitly into constructors; nothing reads the environment after Load.
func Load() Config {
	return Config{
		Port:        envInt("TRIAGEM_PORT", 8760),
		OllamaURL:   envStr("OLLAMA_URL", "http://localhost:11434"),
		Model:       envStr("TRIAGEM_MODEL", "tinyllama"),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		APIToken:    envStr("TRIAGEM_API_TOKEN", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
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
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
