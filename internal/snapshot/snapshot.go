// Package snapshot manages the local version store: one directory per entry,
// one timestamped subdirectory per version, each holding a full copy of the
// live save folder at that instant. Versions are never mutated after
// creation.
package snapshot

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harshpatel5940/savesync/internal/config"
	"github.com/harshpatel5940/savesync/internal/version"
)

// Version is a handle to a fully materialized copy of a live folder.
type Version struct {
	Entry string
	Name  string
	Path  string
	// Temp marks versions created only to feed a remote upload. They live
	// in a scratch directory and must be released with Cleanup.
	Temp bool
}

// Cleanup removes the backing directory of a temporary version. It is a
// no-op for permanent versions, so callers can defer it unconditionally.
func (v *Version) Cleanup() {
	if v == nil || !v.Temp {
		return
	}
	os.RemoveAll(filepath.Dir(v.Path))
}

// Store is the on-device version store rooted at a backup directory.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the backup root directory.
func (s *Store) Root() string {
	return s.root
}

// EntryDir returns the directory holding an entry's versions.
func (s *Store) EntryDir(entry string) string {
	return filepath.Join(s.root, entry)
}

// VersionPath returns the directory of one version of an entry.
func (s *Store) VersionPath(entry, name string) string {
	return filepath.Join(s.root, entry, name)
}

// Create materializes a new version of livePath for entry, named by the
// current time at second resolution.
//
// With local snapshots enabled the copy is permanent under the store. With
// only remote sync enabled the copy goes to a scratch directory and the
// returned version is temporary. With both flags off nothing is written and
// Create returns (nil, nil).
func (s *Store) Create(entry, livePath string, settings config.Settings) (*Version, error) {
	if !settings.AllowLocalSnapshots && !settings.AllowRemoteSync {
		return nil, nil
	}

	if _, err := os.Stat(livePath); err != nil {
		return nil, fmt.Errorf("save path not found: %s: %w", livePath, err)
	}

	name := version.Now()

	if settings.AllowLocalSnapshots {
		dest := s.VersionPath(entry, name)
		if _, err := os.Stat(dest); err == nil {
			return nil, fmt.Errorf("version %s already exists for %s", name, entry)
		}
		if err := CopyTree(livePath, dest); err != nil {
			os.RemoveAll(dest)
			return nil, err
		}
		return &Version{Entry: entry, Name: name, Path: dest}, nil
	}

	// Remote-only: stage into a scratch directory the caller releases.
	scratch, err := os.MkdirTemp("", "savesync-upload-*")
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(scratch, name)
	if err := CopyTree(livePath, dest); err != nil {
		os.RemoveAll(scratch)
		return nil, err
	}
	return &Version{Entry: entry, Name: name, Path: dest, Temp: true}, nil
}

// List returns the entry's version names, newest first. Directories that do
// not follow the version naming scheme are ignored.
func (s *Store) List(entry string) ([]string, error) {
	entries, err := os.ReadDir(s.EntryDir(entry))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && version.IsValid(e.Name()) {
			names = append(names, e.Name())
		}
	}
	version.SortDescending(names)
	return names, nil
}

// LatestPath returns the path of the entry's newest version, or ok=false
// when no version exists yet.
func (s *Store) LatestPath(entry string) (string, bool, error) {
	names, err := s.List(entry)
	if err != nil || len(names) == 0 {
		return "", false, err
	}
	return s.VersionPath(entry, version.Latest(names)), true, nil
}

// Delete removes one version of an entry from the store.
func (s *Store) Delete(entry, name string) error {
	if !version.IsValid(name) {
		return fmt.Errorf("not a version name: %s", name)
	}
	return os.RemoveAll(s.VersionPath(entry, name))
}

// CopyTree recursively copies src into dst, preserving relative structure,
// file modes, and modification times.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := entry.Info()
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}

		if err := copyFile(path, target, info.Mode().Perm()); err != nil {
			return err
		}
		return os.Chtimes(target, info.ModTime(), info.ModTime())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
