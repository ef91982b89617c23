package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/retention"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var (
	cleanupKeepCount int
	cleanupRemote    bool
	cleanupDryRun    bool
	cleanupVerbose   bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [entry]",
	Short: "Delete old local versions",
	Long: `Remove old local versions beyond the keep count, for one entry or
for all of them. The sync pass never deletes local versions; this command
is the only way they go away.

Examples:
  savesync cleanup --keep 10       # Keep the 10 newest versions per entry
  savesync cleanup elden --keep 3  # Clean up one entry
  savesync cleanup --remote        # Also prune remote versions
  savesync cleanup --dry-run       # Preview deletions`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().IntVarP(&cleanupKeepCount, "keep", "k", 0, "Number of versions to keep (default from config)")
	cleanupCmd.Flags().BoolVarP(&cleanupRemote, "remote", "r", false, "Also prune versions in cloud storage")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview deletions")
	cleanupCmd.Flags().BoolVarP(&cleanupVerbose, "verbose", "v", false, "Show detailed output")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ui.Verbose = cleanupVerbose

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keep := cleanupKeepCount
	if keep <= 0 {
		keep = cfg.Settings.KeepCount
	}
	if keep <= 0 {
		return fmt.Errorf("keep count must be positive (use --keep or set keep_count in the config)")
	}

	names := cfg.EntryNames()
	if len(args) == 1 {
		if _, ok := cfg.Entries[args[0]]; !ok {
			return fmt.Errorf("unknown entry: %s", args[0])
		}
		names = args
	}

	store := snapshot.NewStore(cfg.BackupRoot)
	sink := newSink(cfg)

	if cleanupDryRun {
		return previewCleanup(store, names, keep)
	}

	deleted := 0
	policy := retention.KeepCount{N: keep}
	for _, name := range names {
		n, err := policy.Apply(store, name, sink)
		if err != nil {
			return fmt.Errorf("cleanup failed for %s: %w", name, err)
		}
		deleted += n
	}

	if cleanupRemote {
		pruned, err := pruneRemoteVersions(cfg, names, keep, sink)
		if err != nil {
			return err
		}
		deleted += pruned
	}

	if deleted > 0 {
		ui.PrintSuccess("Deleted %d version(s), keeping %d per entry", deleted, keep)
	} else {
		ui.PrintSuccess("No cleanup needed")
	}
	return nil
}

func previewCleanup(store *snapshot.Store, names []string, keep int) error {
	toDelete := 0
	for _, name := range names {
		versions, err := store.List(name)
		if err != nil {
			return err
		}
		for i, v := range versions {
			if i >= keep {
				fmt.Printf("  %s %s/%s (delete)\n", ui.IconError, name, v)
				toDelete++
			} else if cleanupVerbose {
				fmt.Printf("  %s %s/%s (keep)\n", ui.IconSuccess, name, v)
			}
		}
	}
	if toDelete > 0 {
		ui.PrintInfo("DRY RUN: Would delete %d version(s), keep %d per entry", toDelete, keep)
	} else {
		ui.PrintInfo("DRY RUN: Nothing to delete (keeping %d)", keep)
	}
	return nil
}

func pruneRemoteVersions(cfg *config.Config, names []string, keep int, sink logsink.Sink) (int, error) {
	sess, err := connectRemote(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to remote storage: %w", err)
	}
	defer sess.Close()

	pruned := 0
	for _, name := range names {
		n, err := retention.PruneRemote(sess, cfg.Remote.Root, name, keep, sink)
		if err != nil {
			return pruned, fmt.Errorf("remote prune failed for %s: %w", name, err)
		}
		pruned += n
	}
	return pruned, nil
}
