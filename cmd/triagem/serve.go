package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oncall-labs/triagem/internal/api"
	"github.com/oncall-labs/triagem/internal/bus"
	"github.com/oncall-labs/triagem/internal/classify"
	"github.com/oncall-labs/triagem/internal/extract"
	"github.com/oncall-labs/triagem/internal/ollama"
	"github.com/oncall-labs/triagem/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the incident parsing HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("triagem starting", "port", cfg.Port, "model", cfg.Model)

		llm := ollama.NewClient(cfg.OllamaURL, cfg.Model)
		if err := llm.Ping(ctx); err != nil {
			slog.Warn("could not verify ollama connection", "url", cfg.OllamaURL, "error", err)
		} else {
			slog.Info("ollama reachable", "url", cfg.OllamaURL)
		}

		engine := extract.New(llm, slog.Default())

		// NATS publisher (optional — parsing works without downstream consumers)
		var publisher *bus.Publisher
		var natsClient *bus.Client
		if cfg.NatsURL != "" {
			var err error
			natsClient, err = bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
			if err != nil {
				return err
			}
			defer natsClient.Close()
			publisher = bus.NewPublisher(natsClient)
			slog.Info("NATS connected", "url", cfg.NatsURL)
		} else {
			slog.Warn("NATS not configured — parsed incidents will not be published")
		}

		// Incident archive (optional — the engine itself is stateless)
		var archive *store.Store
		if cfg.DatabaseURL != "" {
			var err error
			archive, err = store.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer archive.Close()
			if err := archive.EnsureSchema(ctx); err != nil {
				return err
			}
			slog.Info("incident archive connected")
		} else {
			slog.Warn("DATABASE_URL not set — running without incident archive")
		}

		srv := api.NewServer(cfg.Port, cfg.APIToken, engine, llm,
			classify.Instruction{}, publisher, archive, slog.Default())
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("HTTP server error", "error", err)
			}
		}()

		slog.Info("triagem ready", "port", cfg.Port)
		<-ctx.Done()
		slog.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
