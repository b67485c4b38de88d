package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/prosalmed/sstcheck/internal/ai"
	"github.com/prosalmed/sstcheck/internal/api"
	"github.com/prosalmed/sstcheck/internal/catalog"
	"github.com/prosalmed/sstcheck/internal/config"
	"github.com/prosalmed/sstcheck/internal/history"
	"github.com/prosalmed/sstcheck/internal/inspection"
	"github.com/prosalmed/sstcheck/internal/logging"
	"github.com/prosalmed/sstcheck/internal/service"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "sstcheck",
	Short:   "sstcheck - SST inspection checklist service",
	Long:    `sstcheck runs occupational health-and-safety (SST) inspections against the LOPCYMAT checklist: records answers, estimates fine exposure and produces the inspection memorándum.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sstcheck %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	// Baseline logger for early startup logs.
	logging.Init(logging.Config{Format: "auto", Level: "info", Component: "sstcheck"})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Re-initialize with configuration-driven settings.
	logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: "sstcheck",
		FilePath:  cfg.LogFile,
	})

	log.Info().Str("version", Version).Msg("Starting sstcheck inspection service")

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("Failed to open history store")
	}
	defer closeStore()

	var narrator service.Narrator
	if cfg.GeminiAPIKey != "" {
		narrator = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout)
	} else {
		log.Warn().Msg("No Gemini API key configured, narrative drafting disabled")
	}

	svc := service.New(catalog.Default(), store, narrator, inspection.FinancialParameters{
		FineUnit:     cfg.FineUnit,
		ExchangeRate: cfg.ExchangeRate,
		Workers:      1,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startMetricsServer(ctx, fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.MetricsPort))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ListenHost, cfg.ListenPort),
		Handler:      api.NewRouter(cfg, svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // narrative requests can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to shut down server cleanly")
	}
}

func openStore(cfg *config.Config) (history.Store, func(), error) {
	switch cfg.HistoryBackend {
	case "sqlite":
		s, err := history.NewSQLiteStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close history database")
			}
		}, nil
	default:
		s, err := history.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
