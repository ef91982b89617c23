package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	syncerrors "github.com/harshpatel5940/savesync/internal/errors"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var (
	backupForce   bool
	backupVerbose bool
)

var backupCmd = &cobra.Command{
	Use:   "backup [entry...]",
	Short: "Back up specific save folders now",
	Long: `Back up the named save folders, or all configured folders when no
names are given. Unlike sync, backup can be forced to create a version
even when nothing changed.

Examples:
  savesync backup                # Back up all changed entries
  savesync backup elden hades    # Back up two specific entries
  savesync backup elden --force  # New version even without changes`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolVarP(&backupForce, "force", "f", false, "Create a version even when nothing changed")
	backupCmd.Flags().BoolVarP(&backupVerbose, "verbose", "v", false, "Show detailed output")
}

func runBackup(cmd *cobra.Command, args []string) error {
	ui.Verbose = backupVerbose

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = cfg.EntryNames()
	}
	if len(names) == 0 {
		ui.PrintInfo("No save folders configured")
		return nil
	}
	for _, name := range names {
		if _, ok := cfg.Entries[name]; !ok {
			return fmt.Errorf("unknown entry: %s", name)
		}
	}

	sink := newSink(cfg)
	engine, _, err := newEngine(cfg, sink)
	if err != nil {
		return err
	}

	ctx := context.Background()
	bar := ui.NewProgressBar(len(names), "Backing up")

	failed := 0
	for _, name := range names {
		if err := engine.BackupEntry(ctx, name, backupForce); err != nil {
			printBackupError(name, err)
			failed++
			if !syncerrors.IsRecoverable(err) {
				return fmt.Errorf("backup aborted at %s: %w", name, err)
			}
		}
		bar.Add(1)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(names))
	}
	ui.PrintSuccess("Backed up %d entries", len(names))
	return nil
}

func printBackupError(name string, err error) {
	var syncErr *syncerrors.SyncError
	if errors.As(err, &syncErr) && syncErr.Suggestion != "" {
		ui.PrintErrorWithSolution(fmt.Sprintf("%s: %s", name, syncErr.Message), syncErr.Suggestion, syncErr.Alternative)
		return
	}
	ui.PrintError("%s: %v", name, err)
}
