package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/ui"
)

var (
	syncWatch   bool
	syncVerbose bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up changed save folders",
	Long: `Check every configured save folder for changes and back up the ones
that differ from their latest local version. When remote sync is enabled,
each new version is also uploaded to cloud storage and old remote versions
beyond the keep count are pruned.

Examples:
  savesync sync           # One pass over all entries
  savesync sync --watch   # Keep running and sync on file changes`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVarP(&syncWatch, "watch", "w", false, "Watch save folders and sync continuously")
	syncCmd.Flags().BoolVarP(&syncVerbose, "verbose", "v", false, "Show detailed output")
}

func runSync(cmd *cobra.Command, args []string) error {
	ui.Verbose = syncVerbose

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Entries) == 0 {
		ui.PrintInfo("No save folders configured")
		ui.PrintDim("  Add one: savesync config add <name> <path>")
		return nil
	}

	sink := newSink(cfg)
	engine, _, err := newEngine(cfg, sink)
	if err != nil {
		return err
	}

	if syncWatch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// An initial pass catches changes made while savesync was not running.
		engine.RunPass(ctx)

		if err := engine.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch failed: %w", err)
		}
		ui.PrintInfo("Stopped watching")
		return nil
	}

	engine.RunPass(context.Background())
	return nil
}
