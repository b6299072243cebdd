// Package main はドキュメントストアの運用CLIです
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Vladislavlhp7/data-lineage/internal/infrastructure/di"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
	"github.com/Vladislavlhp7/data-lineage/pkg/logger"
)

var verbose bool

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "docctl",
		Short:         "Operations CLI for the versioned document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logger.DefaultConfig()
			logCfg.Format = "text"
			logCfg.Output = "stderr"
			logCfg.Level = "warn"
			if verbose {
				logCfg.Level = "debug"
			}
			return logger.Setup(logCfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newSweepCmd(),
		newHistoryCmd(),
		newVerifyCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// withContainer は設定からDIコンテナを作成してfnを実行します
func withContainer(ctx context.Context, fn func(c *di.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close container", "error", err)
		}
	}()

	return fn(c)
}
