package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/pkg/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts    app.Options
		envFile string
	)

	cmd := &cobra.Command{
		Use:           "twitchvoice",
		Short:         "Twitch chat bot that answers and reads chat aloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnv(envFile); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx, opts); err != nil {
				fmt.Fprintln(os.Stderr, "twitchvoice:", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "path to the TOML config file")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "logs/main.log", "JSON log file, empty to log to stdout only")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file with "+config.TokenEnv)

	cmd.SetContext(context.Background())
	return cmd
}

// loadEnv tolerates a missing file, any other problem with it is an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
