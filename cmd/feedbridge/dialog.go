package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/feedbridge/feedbridge/internal/dialog"
	"github.com/feedbridge/feedbridge/internal/logging"
)

var dialogCmd = &cobra.Command{
	Use:    "dialog",
	Hidden: true,
	Short:  "Run one dialog session (spawned by the server, not for direct use)",
	Long: `Reads FEEDBRIDGE_PROMPT and FEEDBRIDGE_OUTPUT_FILE from the
environment, collects the user's answer, writes the JSON record to the
output file and exits 0. The serving process spawns this per request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logging.New(slog.LevelInfo)
		if err := dialog.Run(ctx, logger); err != nil {
			logger.Error("dialog session failed", "err", err)
			return err
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(dialogCmd)
}
