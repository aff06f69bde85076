package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deepseek-relay/internal/config"
	"deepseek-relay/internal/handlers"
	"deepseek-relay/internal/logger"
	"deepseek-relay/internal/metrics"
	"deepseek-relay/internal/router"
	"deepseek-relay/internal/services"
)

// A chat call can take MaxAttempts * AttemptTimeout plus the retry delays,
// so the write timeout sits above that bound.
const writeTimeout = 200 * time.Second

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServer(cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Address to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	return cmd
}

// loadConfig reads the environment and applies the persistent --debug flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()

	if cmd.Flags().Changed("debug") {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return nil, fmt.Errorf("could not get debug flag: %w", err)
		}
		cfg.Debug = debug
	}
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	log := logger.New(cfg.Debug)
	defer log.Sync()

	log.Info("starting DeepSeek relay", zap.String("version", version), zap.String("env", cfg.Env))

	if !cfg.HasAPIKey() {
		log.Warn("DEEPSEEK_API_KEY is not set; /chat will return a configuration error")
	}

	// ──── Services ────
	collector := metrics.NewCollector()
	selector := services.NewModelSelector()
	deepseek := services.NewDeepSeekService(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, log, collector)

	log.Info("using model", zap.String("model", selector.Current()), zap.String("upstream", cfg.DeepSeekBaseURL))

	// ──── Handlers ────
	r := router.New(
		log,
		handlers.NewChatHandler(deepseek, selector, log),
		handlers.NewModelHandler(selector, log),
		handlers.NewHealthHandler(deepseek, selector, log),
		collector.Handler(),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("relay ready", zap.String("addr", fmt.Sprintf("http://%s", cfg.Addr())))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-idle
	return nil
}
