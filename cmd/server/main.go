package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "relay",
		Short: "DeepSeek chat relay",
		Long: `relay accepts chat messages over HTTP and forwards them to the DeepSeek
chat-completion API, retrying transient failures.

Configuration is read from the environment (and a .env file if present):
  DEEPSEEK_API_KEY   bearer token for the upstream API
  DEEPSEEK_BASE_URL  upstream base URL (default https://api.deepseek.com)
  HOST, PORT         listen address (default 0.0.0.0:8000)
  LOG_DEBUG          enable debug logging`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newCheckKeyCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
