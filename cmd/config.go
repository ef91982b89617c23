package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage savesync configuration",
	Long: `Manage the savesync configuration file (~/.savesync.yaml).

The config command provides subcommands to:
  - Display the current configuration
  - Show the config file path
  - Edit the configuration in your default editor
  - Add and remove save folder entries
  - Set individual settings

Configuration controls:
  - Which save folders are tracked (entries)
  - Local snapshots and remote sync toggles
  - Retention keep count
  - Cloud bucket, region, and endpoint`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Displays the current configuration, including default values.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in default editor",
	Long: `Opens the configuration file in your default editor.

The editor is determined by the EDITOR environment variable,
falling back to 'vim' if not set.`,
	RunE: runConfigEdit,
}

var configAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Track a save folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigAdd,
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Stop tracking a save folder",
	Long: `Removes an entry from the configuration. Local and remote versions
of the entry are kept; use cleanup to delete them.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigRemove,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a single configuration value and saves the file.

Supported keys:
  backup_root, log_file
  allow_local_snapshots, allow_remote_sync, detect_deletions (true/false)
  keep_count (number)
  remote.bucket, remote.region, remote.endpoint, remote.root
  remote.access_key, remote.secret_key

Examples:
  savesync config set allow_remote_sync true
  savesync config set keep_count 10
  savesync config set remote.bucket my-saves`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ui.PrintSectionHeader("⚙️", "Current Configuration")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Println(string(data))

	configPath, err := config.Path()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("%s Using default configuration (no config file found)\n", ui.Info("📝"))
		fmt.Printf("   Create one with: %s\n", ui.Info("savesync init"))
	} else {
		fmt.Printf("%s Configuration loaded from: %s\n", ui.Info("📝"), configPath)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Println(configPath)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := config.Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("failed to create configuration file: %w", err)
		}
		fmt.Println(ui.Success("✓") + " Created new configuration file")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	fmt.Printf("Opening %s in %s...\n", configPath, editor)
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	if _, err := config.Load(); err != nil {
		ui.PrintWarning("Configuration file may have syntax errors: %v", err)
		fmt.Println()
		fmt.Println("Fix the errors and run 'savesync config show' to verify.")
		return nil
	}

	ui.PrintSuccess("Configuration saved successfully!")
	return nil
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if existing, ok := cfg.Entries[name]; ok {
		return fmt.Errorf("entry %s already tracks %s", name, existing)
	}

	if info, err := os.Stat(path); err != nil {
		ui.PrintWarning("Path does not exist yet: %s", path)
	} else if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	if cfg.Entries == nil {
		cfg.Entries = map[string]string{}
	}
	cfg.Entries[name] = path

	if err := saveConfig(cfg); err != nil {
		return err
	}
	ui.PrintSuccess("Tracking %s: %s", name, path)
	return nil
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, ok := cfg.Entries[name]; !ok {
		return fmt.Errorf("unknown entry: %s", name)
	}
	delete(cfg.Entries, name)

	if err := saveConfig(cfg); err != nil {
		return err
	}
	ui.PrintSuccess("Stopped tracking %s", name)
	ui.PrintDim("  Existing versions are kept, delete them with 'savesync cleanup'")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch key {
	case "backup_root":
		cfg.BackupRoot = value
	case "log_file":
		cfg.LogFile = value
	case "allow_local_snapshots", "allow_remote_sync", "detect_deletions":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		switch key {
		case "allow_local_snapshots":
			cfg.Settings.AllowLocalSnapshots = b
		case "allow_remote_sync":
			cfg.Settings.AllowRemoteSync = b
		case "detect_deletions":
			cfg.Settings.DetectDeletions = b
		}
	case "keep_count":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("keep_count expects a positive number")
		}
		cfg.Settings.KeepCount = n
	case "remote.bucket", "remote.region", "remote.endpoint", "remote.root",
		"remote.access_key", "remote.secret_key":
		if cfg.Remote == nil {
			cfg.Remote = &config.Remote{Root: "SaveSync"}
		}
		switch key {
		case "remote.bucket":
			cfg.Remote.Bucket = value
		case "remote.region":
			cfg.Remote.Region = value
		case "remote.endpoint":
			cfg.Remote.Endpoint = value
		case "remote.root":
			cfg.Remote.Root = value
		case "remote.access_key":
			cfg.Remote.AccessKey = value
		case "remote.secret_key":
			cfg.Remote.SecretKey = value
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}

	if err := saveConfig(cfg); err != nil {
		return err
	}
	ui.PrintSuccess("Set %s = %s", key, value)
	return nil
}

func saveConfig(cfg *config.Config) error {
	configPath, err := config.Path()
	if err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}
