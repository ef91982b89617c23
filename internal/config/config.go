// Package config loads and persists the savesync configuration file.
// The file maps entry names to live save-folder paths and holds the
// sync settings the core owns (local snapshots, remote sync, keep count).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings holds the sync flags and retention knobs owned by the core.
type Settings struct {
	AllowLocalSnapshots bool `yaml:"allow_local_snapshots" mapstructure:"allow_local_snapshots"`
	AllowRemoteSync     bool `yaml:"allow_remote_sync" mapstructure:"allow_remote_sync"`
	KeepCount           int  `yaml:"keep_count" mapstructure:"keep_count"`
	DetectDeletions     bool `yaml:"detect_deletions" mapstructure:"detect_deletions"`
}

// Remote holds the S3-compatible remote store configuration.
type Remote struct {
	Bucket   string `yaml:"bucket" mapstructure:"bucket"`
	Region   string `yaml:"region" mapstructure:"region"`
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	Root     string `yaml:"root" mapstructure:"root"`
	// Static keys for S3-compatible services. When empty, the standard
	// AWS credential chain is used.
	AccessKey string `yaml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key,omitempty" mapstructure:"secret_key"`
}

type Config struct {
	BackupRoot string            `yaml:"backup_root" mapstructure:"backup_root"`
	LogFile    string            `yaml:"log_file" mapstructure:"log_file"`
	Entries    map[string]string `yaml:"entries" mapstructure:"entries"`
	Settings   Settings          `yaml:"settings" mapstructure:"settings"`
	Remote     *Remote           `yaml:"remote,omitempty" mapstructure:"remote"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		BackupRoot: filepath.Join(homeDir, ".savesync", "backup"),
		LogFile:    filepath.Join(homeDir, ".savesync", "savesync.log"),
		Entries:    map[string]string{},
		Settings: Settings{
			AllowLocalSnapshots: true,
			AllowRemoteSync:     false,
			KeepCount:           5,
			DetectDeletions:     false,
		},
		Remote: &Remote{
			Root: "SaveSync",
		},
	}
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".savesync.yaml"), nil
}

func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Entries == nil {
		cfg.Entries = map[string]string{}
	}
	if cfg.Remote == nil {
		cfg.Remote = &Remote{Root: "SaveSync"}
	}
	if cfg.Remote.Root == "" {
		cfg.Remote.Root = "SaveSync"
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ExpandPaths expands ~ in all configured paths.
func (c *Config) ExpandPaths() {
	homeDir, _ := os.UserHomeDir()

	for name, path := range c.Entries {
		c.Entries[name] = expandPath(path, homeDir)
	}

	c.BackupRoot = expandPath(c.BackupRoot, homeDir)
	c.LogFile = expandPath(c.LogFile, homeDir)
}

// EntryPath returns the live save-folder path for a configured entry.
func (c *Config) EntryPath(name string) (string, error) {
	path, ok := c.Entries[name]
	if !ok {
		return "", fmt.Errorf("entry %q not in config", name)
	}
	return path, nil
}

// EntryNames returns all configured entry names, sorted for stable output.
func (c *Config) EntryNames() []string {
	names := make([]string, 0, len(c.Entries))
	for name := range c.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoteReady reports whether the remote store is configured well enough
// to attempt a sync.
func (c *Config) RemoteReady() bool {
	return c.Remote != nil && c.Remote.Bucket != "" && c.Remote.Region != ""
}

func expandPath(path, homeDir string) string {
	if len(path) > 0 && path[0] == '~' {
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
