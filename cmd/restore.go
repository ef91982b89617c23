package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/config"
	syncerrors "github.com/harshpatel5940/savesync/internal/errors"
	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/restore"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/tui"
	"github.com/harshpatel5940/savesync/internal/ui"
	"github.com/harshpatel5940/savesync/internal/version"
)

var (
	restoreRemote  bool
	restoreVersion string
	restoreYes     bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <entry>",
	Short: "Restore a save folder from a version",
	Long: `Replace an entry's live save folder with a previously backed up
version. Versions come from the local store by default, or from cloud
storage with --remote. Without --version an interactive picker lists the
available versions, newest first.

Restoring replaces the live folder completely. Anything in it that is not
part of the chosen version is lost.

Examples:
  savesync restore elden                        # Pick a local version
  savesync restore elden --remote               # Pick a cloud version
  savesync restore elden --version 2025-06-01_10-00-00 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVarP(&restoreRemote, "remote", "r", false, "Restore from cloud storage")
	restoreCmd.Flags().StringVar(&restoreVersion, "version", "", "Version name to restore (skips the picker)")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) error {
	entry := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	livePath, err := cfg.EntryPath(entry)
	if err != nil {
		return err
	}
	if restoreVersion != "" && !version.IsValid(restoreVersion) {
		return fmt.Errorf("invalid version name: %s", restoreVersion)
	}

	sink := newSink(cfg)
	engine, store, err := newEngine(cfg, sink)
	if err != nil {
		return err
	}

	err = engine.WithEntryLock(entry, func() error {
		if restoreRemote {
			return restoreFromRemote(cfg, sink, store, entry, livePath)
		}
		return restoreFromLocal(sink, store, entry, livePath)
	})
	if syncerrors.IsCancelled(err) {
		ui.PrintInfo("Restore of %s cancelled", entry)
		return nil
	}
	return err
}

func restoreFromLocal(sink logsink.Sink, store *snapshot.Store, entry, livePath string) error {
	selector := restore.NewSelector(tui.VersionPicker{}, sink)

	name := restoreVersion
	if name == "" {
		var ok bool
		var err error
		name, ok, err = selector.SelectLocal(store, entry)
		if err != nil {
			return err
		}
		if !ok {
			return syncerrors.NewCancelledError(entry)
		}
	} else {
		versionDir := store.VersionPath(entry, name)
		if _, err := os.Stat(versionDir); err != nil {
			return syncerrors.NewNotFoundError(versionDir, err).WithEntry(entry)
		}
	}

	if err := confirmRestore(entry, name, livePath); err != nil {
		return err
	}

	exec := restore.NewExecutor(sink)
	if err := exec.RestoreLocal(store.VersionPath(entry, name), livePath); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ui.PrintSuccess("Restored %s to version %s", entry, name)
	return nil
}

func restoreFromRemote(cfg *config.Config, sink logsink.Sink, store *snapshot.Store, entry, livePath string) error {
	sess, err := connectRemote(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to remote storage: %w", err)
	}
	defer sess.Close()

	names, nodes, err := restore.RemoteVersions(sess, cfg.Remote.Root, entry)
	if err != nil {
		return fmt.Errorf("failed to list remote versions: %w", err)
	}

	name := restoreVersion
	if name == "" {
		selector := restore.NewSelector(tui.VersionPicker{}, sink)
		var ok bool
		name, ok, err = selector.SelectRemote(sess, cfg.Remote.Root, entry)
		if err != nil {
			return err
		}
		if !ok {
			return syncerrors.NewCancelledError(entry)
		}
	}
	node, found := nodes[name]
	if !found {
		return fmt.Errorf("version %s not found in remote storage for %s (have %d versions)", name, entry, len(names))
	}

	if err := confirmRestore(entry, name, livePath); err != nil {
		return err
	}

	exec := restore.NewExecutor(sink)
	if err := exec.RestoreRemote(sess, node, name, livePath); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ui.PrintSuccess("Restored %s to remote version %s", entry, name)
	return nil
}

func confirmRestore(entry, name, livePath string) error {
	if restoreYes {
		return nil
	}
	if !tui.IsTerminal() {
		return fmt.Errorf("confirmation required, rerun with --yes")
	}
	ok, err := tui.ConfirmRestore(entry, name, livePath)
	if err != nil {
		return err
	}
	if !ok {
		return syncerrors.NewCancelledError(entry)
	}
	return nil
}
