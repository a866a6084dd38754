package main

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/di"
	"mafiabot/internal/jobs"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	flags := &structures.CliFlags{}

	rootCmd := &cobra.Command{
		Use:           "mafiabot",
		Short:         "Moderation and housekeeping bot for a Discord community",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := di.InitApp(flags)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", configPathFromEnv(), "Path to configuration file (env MAFIABOT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "Log at debug level")

	runJobCmd := &cobra.Command{
		Use:       "run-job <name>",
		Short:     "Run one scheduled job immediately and exit",
		Long:      "Run one scheduled job immediately and exit. Jobs: " + strings.Join(jobs.Names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobs.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			operator, err := di.InitOperator(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return operator.RunJob(ctx, args[0])
		},
	}
	rootCmd.AddCommand(runJobCmd)

	err := rootCmd.ExecuteContext(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, providers.ErrDefaultConfigWritten):
		fmt.Fprintln(os.Stderr, err)
	default:
		fmt.Fprintf(os.Stderr, "%s: %s\n", providers.AppName, err)
		os.Exit(1)
	}
}

func configPathFromEnv() string {
	if path := os.Getenv("MAFIABOT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
