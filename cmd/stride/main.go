// Command stride is a terminal client for adaptive training coaching.
//
// Usage:
//
//	stride [flags]
//
// Flags:
//
//	-config string    Config file path (default: ~/.stride/config.yaml)
//	-base-url string  Coaching API base URL (overrides config)
//	-token string     API bearer token (overrides config)
//	-endpoint string  Streaming adaptation path (overrides config)
//	-history string   History directory (overrides config)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pwalczak/stride"
	bt "github.com/pwalczak/stride/bubbletea"
	"github.com/pwalczak/stride/coachapi"
	"github.com/pwalczak/stride/config"
	"github.com/pwalczak/stride/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stride: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Config file path (default: ~/.stride/config.yaml)")
		baseURL    = flag.String("base-url", "", "Coaching API base URL (overrides config)")
		token      = flag.String("token", "", "API bearer token (overrides config)")
		endpoint   = flag.String("endpoint", "", "Streaming adaptation path (overrides config)")
		history    = flag.String("history", "", "History directory (overrides config)")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(*configPath, *baseURL, *token, *endpoint, *history)
	if err != nil {
		return err
	}

	client := coachapi.New(cfg.Token, coachapi.WithBaseURL(cfg.BaseURL))
	app := newApp(client, session.New(client), cfg.AdaptPath, cfg.HistoryDir)

	model := bt.New(app, stride.DefaultTheme())
	if err := bt.Run(ctx, model); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// loadConfig resolves the effective configuration: flags beat environment
// variables beat the file beat defaults. Env and file precedence is
// handled inside config.Load; flags are applied on top here.
func loadConfig(path, baseURL, token, endpoint, history string) (config.Config, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if token != "" {
		cfg.Token = token
	}
	if endpoint != "" {
		cfg.AdaptPath = endpoint
	}
	if history != "" {
		cfg.HistoryDir = history
	}
	return cfg, nil
}
