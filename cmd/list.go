package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/restore"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var listRemote bool

var listCmd = &cobra.Command{
	Use:   "list [entry]",
	Short: "List backed up versions",
	Long: `List the versions of every configured entry, or of one entry,
newest first. With --remote the versions in cloud storage are listed
instead of the local store.

Examples:
  savesync list                # All entries, local versions
  savesync list elden          # One entry
  savesync list --remote       # Versions in cloud storage`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listRemote, "remote", "r", false, "List versions in cloud storage")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := cfg.EntryNames()
	if len(args) == 1 {
		if _, ok := cfg.Entries[args[0]]; !ok {
			return fmt.Errorf("unknown entry: %s", args[0])
		}
		names = args
	}
	if len(names) == 0 {
		ui.PrintInfo("No save folders configured")
		return nil
	}

	if listRemote {
		return listRemoteVersions(cfg, names)
	}

	store := snapshot.NewStore(cfg.BackupRoot)
	ui.PrintSectionHeader("💾", "Local versions")
	var rows [][]string
	total := 0
	for _, name := range names {
		versions, err := store.List(name)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", name, err)
		}
		if len(versions) == 0 {
			rows = append(rows, []string{name, "-", "-"})
			continue
		}
		for _, v := range versions {
			size, err := dirSize(store.VersionPath(name, v))
			if err != nil {
				return fmt.Errorf("failed to size %s/%s: %w", name, v, err)
			}
			rows = append(rows, []string{name, v, ui.FormatBytes(size)})
		}
		total += len(versions)
	}
	ui.PrintTable([]string{"ENTRY", "VERSION", "SIZE"}, rows)
	fmt.Println()
	ui.PrintDim("%d version(s) in %s", total, cfg.BackupRoot)
	return nil
}

// dirSize sums the sizes of all regular files under dir.
func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}

func listRemoteVersions(cfg *config.Config, names []string) error {
	sess, err := connectRemote(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to remote storage: %w", err)
	}
	defer sess.Close()

	ui.PrintSectionHeader("☁️", "Remote versions")
	total := 0
	for _, name := range names {
		versions, _, err := restore.RemoteVersions(sess, cfg.Remote.Root, name)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", name, err)
		}
		ui.PrintVersionList(name, versions)
		total += len(versions)
	}
	fmt.Println()
	ui.PrintDim("%d version(s) in bucket %s", total, cfg.Remote.Bucket)
	return nil
}
