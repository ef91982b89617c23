package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/syncer"
	"github.com/harshpatel5940/savesync/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "savesync",
	Short: "A game save backup and sync CLI tool",
	Long: `Savesync watches your game save folders, keeps timestamped local
versions of every change, and mirrors them to S3-compatible cloud storage.

It manages:
  - Change detection per save folder (size and modification time)
  - Timestamped local versions under your backup root
  - A remote hierarchy of root/entry/version in your bucket
  - Retention pruning of old remote versions
  - Restoring any version back into the live save folder`,
	Version: "1.0.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ExpandPaths()
	return cfg, nil
}

// newSink returns the shared log sink: every line goes to the log file
// and is echoed to stdout.
func newSink(cfg *config.Config) logsink.Sink {
	return logsink.NewFileSink(cfg.LogFile, func(line string) {
		fmt.Println(line)
	})
}

func newRemoteClient(cfg *config.Config) (remote.Client, error) {
	if cfg.Remote == nil || !cfg.RemoteReady() {
		return nil, nil
	}
	return remote.NewClient(remote.Config{
		Provider:  "s3",
		Bucket:    cfg.Remote.Bucket,
		Region:    cfg.Remote.Region,
		Endpoint:  cfg.Remote.Endpoint,
		Root:      cfg.Remote.Root,
		AccessKey: cfg.Remote.AccessKey,
		SecretKey: cfg.Remote.SecretKey,
	})
}

// connectRemote opens a session against the configured bucket, showing a
// spinner while the connection is established.
func connectRemote(cfg *config.Config) (remote.Session, error) {
	client, err := newRemoteClient(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("remote sync is not configured, set remote.bucket and remote.region first")
	}
	spinner := ui.NewSpinner(fmt.Sprintf("Connecting to bucket %s", cfg.Remote.Bucket))
	spinner.Start()
	sess, err := client.Connect()
	if err != nil {
		spinner.Fail()
		return nil, err
	}
	spinner.UpdateMessage(fmt.Sprintf("Connected to bucket %s", cfg.Remote.Bucket))
	spinner.Stop()
	return sess, nil
}

func newEngine(cfg *config.Config, sink logsink.Sink) (*syncer.Engine, *snapshot.Store, error) {
	client, err := newRemoteClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create remote client: %w", err)
	}
	store := snapshot.NewStore(cfg.BackupRoot)
	return syncer.New(cfg, store, client, sink), store, nil
}
