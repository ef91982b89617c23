// Package detector decides whether a live save folder has changed since the
// most recent version was taken. It is a pure predicate: no side effects,
// safe to run on every entry at each sync pass.
package detector

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Strictness controls how thorough the comparison is.
type Strictness int

const (
	// OneWay only looks at files present in the live folder. Files that
	// exist only in the prior version (deleted from the live folder since)
	// do not count as a change. This matches the historical behavior and
	// means deletions alone never trigger a new version.
	OneWay Strictness = iota
	// Strict additionally reports a change when a file present in the
	// prior version is missing from the live folder.
	Strict
)

// Detector compares a live folder against a candidate prior version.
type Detector struct {
	Strictness Strictness
}

// New returns a Detector with the given strictness.
func New(s Strictness) *Detector {
	return &Detector{Strictness: s}
}

// Differs reports whether a new version should be created for livePath.
// versionPath is the most recent version's folder, or "" when no prior
// version exists (which always differs).
//
// A file counts as changed when it is absent from the version, its size
// differs, or its modification time differs at whole-second resolution.
func (d *Detector) Differs(livePath, versionPath string) (bool, error) {
	if versionPath == "" {
		return true, nil
	}

	differs := false
	err := filepath.WalkDir(livePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(livePath, path)
		if err != nil {
			return err
		}

		liveInfo, err := entry.Info()
		if err != nil {
			return err
		}

		verInfo, err := os.Stat(filepath.Join(versionPath, rel))
		if err != nil {
			if os.IsNotExist(err) {
				differs = true
				return filepath.SkipAll
			}
			return err
		}

		if liveInfo.Size() != verInfo.Size() ||
			liveInfo.ModTime().Unix() != verInfo.ModTime().Unix() {
			differs = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if differs {
		return true, nil
	}

	if d.Strictness == Strict {
		return d.missingFromLive(livePath, versionPath)
	}
	return false, nil
}

// missingFromLive walks the version tree and reports whether any of its
// files no longer exist under the live folder.
func (d *Detector) missingFromLive(livePath, versionPath string) (bool, error) {
	missing := false
	err := filepath.WalkDir(versionPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(versionPath, path)
		if err != nil {
			return err
		}

		if _, err := os.Stat(filepath.Join(livePath, rel)); os.IsNotExist(err) {
			missing = true
			return filepath.SkipAll
		} else if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return missing, nil
}
