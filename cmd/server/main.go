package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/poll88/deep-research-endpoint/internal/ai"
	"github.com/poll88/deep-research-endpoint/internal/api"
	"github.com/poll88/deep-research-endpoint/internal/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The client is built even without an API key: the request path surfaces
	// the missing key as a server error instead of refusing to start.
	client := ai.NewClient(ai.ClientConfig{
		APIKey:        cfg.OpenAI.APIKey,
		Model:         cfg.OpenAI.Model,
		FallbackModel: cfg.OpenAI.FallbackModel,
		BaseURL:       cfg.OpenAI.BaseURL,
		Style:         ai.RequestStyle(cfg.OpenAI.RequestStyle),
	})

	router := api.NewRouter(client, cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server",
		"addr", addr,
		"model", cfg.OpenAI.Model,
		"fallback", cfg.OpenAI.FallbackModel,
		"auth", cfg.Auth.Token != "",
	)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
