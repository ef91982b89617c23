// Package syncer drives the backup pass over all configured entries:
// change detection, version creation, remote upload, and retention pruning.
// Entries are processed in parallel, but operations on the same entry are
// serialized through a keyed mutex so two backups or a backup and a restore
// can never race on the same live folder or remote subtree.
package syncer

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/detector"
	syncerrors "github.com/harshpatel5940/savesync/internal/errors"
	"github.com/harshpatel5940/savesync/internal/hierarchy"
	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/retention"
	"github.com/harshpatel5940/savesync/internal/snapshot"
)

// Engine wires the sync pipeline together for one configuration snapshot.
type Engine struct {
	cfg    *config.Config
	store  *snapshot.Store
	client remote.Client // nil when remote sync is not configured
	det    *detector.Detector
	sink   logsink.Sink
	locks  entryLocks
}

// New creates an engine. client may be nil; remote sync is then skipped
// even when the allow_remote_sync flag is set.
func New(cfg *config.Config, store *snapshot.Store, client remote.Client, sink logsink.Sink) *Engine {
	if sink == nil {
		sink = logsink.Discard
	}
	strictness := detector.OneWay
	if cfg.Settings.DetectDeletions {
		strictness = detector.Strict
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		client: client,
		det:    detector.New(strictness),
		sink:   sink,
	}
}

// RunPass checks every configured entry and backs up the changed ones.
// Entries run in parallel; a failure in one entry is logged and never
// aborts the others.
func (e *Engine) RunPass(ctx context.Context) {
	e.sink.Log("Checking for save changes...")

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range e.cfg.EntryNames() {
		g.Go(func() error {
			if err := e.SyncEntry(ctx, name); err != nil {
				e.logFailure(name, err)
			}
			return nil
		})
	}
	g.Wait()
}

// SyncEntry backs up one entry if its live folder changed since the most
// recent local version.
func (e *Engine) SyncEntry(ctx context.Context, name string) error {
	return e.WithEntryLock(name, func() error {
		return e.syncLocked(ctx, name, false)
	})
}

// BackupEntry backs up one entry; force skips change detection.
func (e *Engine) BackupEntry(ctx context.Context, name string, force bool) error {
	return e.WithEntryLock(name, func() error {
		return e.syncLocked(ctx, name, force)
	})
}

func (e *Engine) syncLocked(ctx context.Context, name string, force bool) error {
	settings := e.cfg.Settings
	if !settings.AllowLocalSnapshots && !settings.AllowRemoteSync {
		return nil
	}

	livePath, err := e.cfg.EntryPath(name)
	if err != nil {
		return syncerrors.NewConfigError(name, err)
	}
	if _, err := os.Stat(livePath); err != nil {
		return syncerrors.NewNotFoundError(livePath, err).WithEntry(name)
	}

	if !force {
		candidate, hasPrior, err := e.store.LatestPath(name)
		if err != nil {
			return syncerrors.Wrap(err, syncerrors.LocalIOError, "Failed to read version store").WithEntry(name)
		}
		if !hasPrior {
			candidate = ""
		}

		differs, err := e.det.Differs(livePath, candidate)
		if err != nil {
			return syncerrors.WrapWithDetection(err, "Change detection failed").WithEntry(name)
		}
		if !differs {
			e.sink.Log(fmt.Sprintf("No changes in %s", name))
			return nil
		}
		e.sink.Log(fmt.Sprintf("Change detected in %s, creating backup...", name))
	}

	v, err := e.store.Create(name, livePath, settings)
	if err != nil {
		return syncerrors.WrapWithDetection(err, "Backup failed").WithEntry(name)
	}
	if v == nil {
		return nil
	}
	defer v.Cleanup()

	if !v.Temp {
		e.sink.Log(fmt.Sprintf("Backed up %s to %s", name, v.Path))
	}

	if settings.AllowRemoteSync && e.client != nil && e.cfg.RemoteReady() {
		if err := e.syncRemote(ctx, name, v); err != nil {
			// The local version is kept even when the remote step fails.
			return err
		}
	}
	return nil
}

func (e *Engine) syncRemote(_ context.Context, name string, v *snapshot.Version) error {
	sess, err := e.client.Connect()
	if err != nil {
		return syncerrors.NewRemoteError("connect", err).WithEntry(name)
	}
	defer sess.Close()

	root := e.cfg.Remote.Root
	up := hierarchy.NewUploader(sess, root, e.sink)
	if err := up.Upload(name, v.Name, v.Path); err != nil {
		return syncerrors.NewRemoteError("upload", err).WithEntry(name)
	}
	e.sink.Log(fmt.Sprintf("Uploaded version %s of %s", v.Name, name))

	if _, err := retention.PruneRemote(sess, root, name, e.cfg.Settings.KeepCount, e.sink); err != nil {
		return syncerrors.NewRemoteError("prune", err).WithEntry(name)
	}
	return nil
}

// WithEntryLock runs fn while holding the entry's mutex. Restore and backup
// commands share these locks with the sync pass.
func (e *Engine) WithEntryLock(name string, fn func() error) error {
	mu := e.locks.get(name)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func (e *Engine) logFailure(name string, err error) {
	switch {
	case syncerrors.IsNotFound(err):
		e.sink.Log(fmt.Sprintf("Save path missing for %s: %v", name, err))
	case syncerrors.IsRemote(err):
		e.sink.Log(fmt.Sprintf("Remote sync failed for %s, local version kept: %v", name, err))
	default:
		e.sink.Log(fmt.Sprintf("Sync failed for %s: %v", name, err))
	}
}

// entryLocks hands out one mutex per entry name.
type entryLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *entryLocks) get(name string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = map[string]*sync.Mutex{}
	}
	if _, ok := l.locks[name]; !ok {
		l.locks[name] = &sync.Mutex{}
	}
	return l.locks[name]
}
