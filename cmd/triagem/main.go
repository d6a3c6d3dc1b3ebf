package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oncall-labs/triagem/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "triagem",
	Short: "Parses natural-language incident reports into structured records",
	Long:  "Converts free-form incident descriptions (Portuguese, partial English) into a four-field structured record, using a generative model with a deterministic pattern fallback.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		setupLogging(cfg.LogLevel)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
