// Package restore selects a prior version of an entry and replaces the live
// save folder with it. Restoring is destructive by definition: whatever was
// live is discarded. The executor stages the full version first and swaps it
// in with a rename, so an interruption never leaves the live folder
// half-populated.
package restore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/version"
)

// Picker is the user-selection surface: given candidate version names
// (newest first), it returns the chosen one, or ok=false when the user
// cancelled.
type Picker interface {
	Pick(entry string, candidates []string) (choice string, ok bool, err error)
}

// Selector enumerates available versions and asks the picker to choose.
type Selector struct {
	picker Picker
	sink   logsink.Sink
}

func NewSelector(picker Picker, sink logsink.Sink) *Selector {
	if sink == nil {
		sink = logsink.Discard
	}
	return &Selector{picker: picker, sink: sink}
}

// SelectLocal picks from the entry's local versions. An empty candidate
// list or a declined prompt yields ok=false without error.
func (s *Selector) SelectLocal(store *snapshot.Store, entry string) (string, bool, error) {
	names, err := store.List(entry)
	if err != nil {
		return "", false, err
	}
	return s.pick(entry, names)
}

// SelectRemote picks from the entry's versions in the remote hierarchy.
func (s *Selector) SelectRemote(sess remote.Session, root, entry string) (string, bool, error) {
	names, _, err := RemoteVersions(sess, root, entry)
	if err != nil {
		return "", false, err
	}
	return s.pick(entry, names)
}

func (s *Selector) pick(entry string, names []string) (string, bool, error) {
	if len(names) == 0 {
		s.sink.Log(fmt.Sprintf("No versions available for %s", entry))
		return "", false, nil
	}

	choice, ok, err := s.picker.Pick(entry, names)
	if err != nil {
		return "", false, err
	}
	if !ok || choice == "" {
		s.sink.Log(fmt.Sprintf("Selection cancelled for %s", entry))
		return "", false, nil
	}
	return choice, true, nil
}

// RemoteVersions lists an entry's remote version folders, newest first,
// along with their node IDs.
func RemoteVersions(sess remote.Session, root, entry string) ([]string, map[string]remote.NodeID, error) {
	entryNode, ok, err := sess.ResolvePath(root + "/" + entry)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}

	children, err := sess.ListChildren(entryNode)
	if err != nil {
		return nil, nil, err
	}

	byName := map[string]remote.NodeID{}
	var names []string
	for _, c := range children {
		if c.IsFolder && version.IsValid(c.Name) {
			byName[c.Name] = c.ID
			names = append(names, c.Name)
		}
	}
	version.SortDescending(names)
	return names, byName, nil
}

// Executor materializes a selected version over the live folder.
type Executor struct {
	sink logsink.Sink
}

func NewExecutor(sink logsink.Sink) *Executor {
	if sink == nil {
		sink = logsink.Discard
	}
	return &Executor{sink: sink}
}

// RestoreLocal replaces livePath with a copy of versionDir.
func (e *Executor) RestoreLocal(versionDir, livePath string) error {
	staged, cleanup, err := stagingDir(livePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := snapshot.CopyTree(versionDir, staged); err != nil {
		return fmt.Errorf("stage version: %w", err)
	}

	if err := swapIn(staged, livePath); err != nil {
		return err
	}
	e.sink.Log(fmt.Sprintf("Restored %s to %s", filepath.Base(versionDir), livePath))
	return nil
}

// RestoreRemote downloads the whole version subtree into a staging
// directory, then replaces livePath with it. The staging directory is
// removed whether or not the restore succeeds.
func (e *Executor) RestoreRemote(sess remote.Session, versionNode remote.NodeID, versionName, livePath string) error {
	staged, cleanup, err := stagingDir(livePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := e.downloadTree(sess, versionNode, staged); err != nil {
		return fmt.Errorf("download version: %w", err)
	}

	if err := swapIn(staged, livePath); err != nil {
		return err
	}
	e.sink.Log(fmt.Sprintf("Restored %s to %s", versionName, livePath))
	return nil
}

func (e *Executor) downloadTree(sess remote.Session, node remote.NodeID, dest string) error {
	children, err := sess.ListChildren(node)
	if err != nil {
		return err
	}

	for _, c := range children {
		if c.IsFolder {
			sub := filepath.Join(dest, c.Name)
			if err := os.MkdirAll(sub, 0755); err != nil {
				return err
			}
			if err := e.downloadTree(sess, c.ID, sub); err != nil {
				return err
			}
			continue
		}

		if err := sess.Download(c.ID, dest); err != nil {
			return fmt.Errorf("download %s: %w", c.Name, err)
		}
		e.sink.Log(fmt.Sprintf("Downloaded %s", c.Name))
	}
	return nil
}

// stagingDir creates a staging directory on the same filesystem as the
// live folder so the final swap can be a rename. The cleanup func removes
// whatever is left of it.
func stagingDir(livePath string) (string, func(), error) {
	parent := filepath.Dir(livePath)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", nil, err
	}
	staged, err := os.MkdirTemp(parent, ".savesync-stage-*")
	if err != nil {
		return "", nil, err
	}
	return staged, func() { os.RemoveAll(staged) }, nil
}

// swapIn discards the live folder and moves the fully staged copy into its
// place. The rename keeps the window where the live folder is absent as
// small as the filesystem allows; if the rename is not possible the staged
// tree is copied instead.
func swapIn(staged, livePath string) error {
	if err := os.Chmod(staged, 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(livePath); err != nil {
		return fmt.Errorf("remove live folder: %w", err)
	}
	if err := os.Rename(staged, livePath); err == nil {
		return nil
	}
	return snapshot.CopyTree(staged, livePath)
}
