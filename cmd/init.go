package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize savesync configuration",
	Long: `Initialize savesync by creating a default configuration file and the
local backup root if they don't already exist.

This will create:
  - ~/.savesync.yaml (configuration file)
  - ~/.savesync/backup (local version store)`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.Path()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configExists := false
	if _, err := os.Stat(configPath); err == nil {
		configExists = true
	}

	cfg := config.DefaultConfig()

	if configExists {
		fmt.Printf("✓ Config already exists: %s\n", configPath)
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("existing config is invalid: %w", err)
		}
		cfg = loaded
	} else {
		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("✓ Created config: %s\n", configPath)
	}

	cfg.ExpandPaths()
	if err := os.MkdirAll(cfg.BackupRoot, 0755); err != nil {
		return fmt.Errorf("failed to create backup root: %w", err)
	}
	fmt.Printf("✓ Backup root ready: %s\n", cfg.BackupRoot)

	ui.PrintSummaryTable(map[string]string{
		"Config":      configPath,
		"Backup root": cfg.BackupRoot,
		"Log file":    cfg.LogFile,
	})

	if !configExists {
		ui.PrintSuccess("Initialization complete!")
		fmt.Printf("\nNext steps:\n")
		fmt.Printf("  1. Add your save folders: savesync config add <name> <path>\n")
		fmt.Printf("  2. Optionally set bucket and region under remote: in %s\n", configPath)
		fmt.Printf("  3. Run 'savesync sync' to back up changed saves\n")
		fmt.Printf("  4. Run 'savesync sync --watch' to sync continuously\n")
	} else {
		fmt.Printf("\n✓ Already initialized!\n")
	}

	return nil
}
