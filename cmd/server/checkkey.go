package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"deepseek-relay/internal/logger"
	"deepseek-relay/internal/services"
)

func newCheckKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-key",
		Short: "Verify DEEPSEEK_API_KEY against the upstream models endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log := logger.New(cfg.Debug)
			defer log.Sync()

			svc := services.NewDeepSeekService(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, log, nil)
			return checkKey(cmd.Context(), cmd, svc)
		},
	}
}

type modelLister interface {
	ListRemoteModels(ctx context.Context) ([]string, error)
}

func checkKey(ctx context.Context, cmd *cobra.Command, lister modelLister) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ids, err := lister.ListRemoteModels(ctx)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "API key is invalid")
		return fmt.Errorf("checking API key: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "API key is valid")
	if len(ids) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Available models: %s\n", strings.Join(ids, ", "))
	}
	return nil
}
