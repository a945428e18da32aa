// Command stridesim runs a local stand-in for the Stride coaching service.
//
// Usage:
//
//	stridesim [flags]
//	GEMINI_API_KEY=gk-... stridesim -gemini [flags]
//
// Flags:
//
//	-addr string   Listen address (default ":8973")
//	-gemini        Generate narrative with the Gemini API (key from GEMINI_API_KEY)
//	-model string  Gemini model ID (default: generator default)
//	-verbose       Debug-level logging
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/pwalczak/stride/sim"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stridesim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr      = flag.String("addr", ":8973", "Listen address")
		useGemini = flag.Bool("gemini", false, "Generate narrative with the Gemini API (key from GEMINI_API_KEY)")
		model     = flag.String("model", "", "Gemini model ID (default: generator default)")
		verbose   = flag.Bool("verbose", false, "Debug-level logging")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logConfig := zap.NewProductionConfig()
	if *verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gen, err := buildGenerator(ctx, *useGemini, *model, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    *addr,
		Handler: sim.NewServer(gen, sim.WithLogger(log)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("simulator listening", zap.String("addr", *addr), zap.Bool("gemini", *useGemini))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info("simulator stopped")
	return nil
}

// buildGenerator selects the narrative source. Env values are passed in
// so env is only read in run().
func buildGenerator(ctx context.Context, useGemini bool, model, apiKey string) (sim.Generator, error) {
	if !useGemini {
		// A small delay makes streaming visible when driving the TUI by hand.
		return sim.StaticGenerator{Delay: 150 * time.Millisecond}, nil
	}
	if apiKey == "" {
		return nil, fmt.Errorf("-gemini requires GEMINI_API_KEY")
	}
	return sim.NewGeminiGenerator(ctx, apiKey, model)
}
