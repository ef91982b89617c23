package hierarchy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
)

func makeVersionDir(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "savesync-hierarchy-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	os.MkdirAll(filepath.Join(tmpDir, "profiles", "slot1"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "a.sav"), []byte("alpha"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "profiles", "b.sav"), []byte("beta"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "profiles", "slot1", "c.sav"), []byte("gamma"), 0644)
	return tmpDir
}

func TestUploadBuildsHierarchy(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	var logged []string
	sink := logsink.Func(func(msg string) { logged = append(logged, msg) })

	dir := makeVersionDir(t)
	up := NewUploader(sess, "SaveSync", sink)
	if err := up.Upload("Skyrim", "2024-06-01_12-00-00", dir); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if got := store.FolderNames("SaveSync"); len(got) != 1 || got[0] != "Skyrim" {
		t.Errorf("Entry folders = %v", got)
	}
	if got := store.FolderNames("SaveSync/Skyrim"); len(got) != 1 || got[0] != "2024-06-01_12-00-00" {
		t.Errorf("Version folders = %v", got)
	}

	content, ok := store.FileContent("SaveSync/Skyrim/2024-06-01_12-00-00/a.sav")
	if !ok || string(content) != "alpha" {
		t.Errorf("a.sav = %q, ok %v", content, ok)
	}
	content, ok = store.FileContent("SaveSync/Skyrim/2024-06-01_12-00-00/profiles/slot1/c.sav")
	if !ok || string(content) != "gamma" {
		t.Errorf("nested c.sav = %q, ok %v", content, ok)
	}

	if len(logged) != 3 {
		t.Errorf("Expected one log line per file, got %d: %v", len(logged), logged)
	}
	for _, line := range logged {
		if !strings.Contains(line, "SaveSync/Skyrim/2024-06-01_12-00-00") {
			t.Errorf("Log line missing remote path: %q", line)
		}
	}
}

func TestUploadTwiceIsFolderIdempotent(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	dir := makeVersionDir(t)
	up := NewUploader(sess, "SaveSync", nil)

	if err := up.Upload("Skyrim", "2024-06-01_12-00-00", dir); err != nil {
		t.Fatal(err)
	}
	if err := up.Upload("Skyrim", "2024-06-01_12-00-00", dir); err != nil {
		t.Fatal(err)
	}

	// Exactly one folder node per path segment, no duplicates.
	checks := map[string][]string{
		"SaveSync":                                     {"Skyrim"},
		"SaveSync/Skyrim":                              {"2024-06-01_12-00-00"},
		"SaveSync/Skyrim/2024-06-01_12-00-00":          {"profiles"},
		"SaveSync/Skyrim/2024-06-01_12-00-00/profiles": {"slot1"},
	}
	for path, want := range checks {
		got := store.FolderNames(path)
		if len(got) != len(want) {
			t.Errorf("Folders under %s = %v, want %v", path, got, want)
		}
	}
}

func TestEnsurePathIdempotent(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	up := NewUploader(sess, "SaveSync", nil)

	first, err := up.EnsurePath("SaveSync/Skyrim")
	if err != nil {
		t.Fatal(err)
	}
	second, err := up.EnsurePath("SaveSync/Skyrim")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("EnsurePath created duplicates: %s vs %s", first, second)
	}
}

func TestUploadDistinctVersionsShareEntryFolder(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	dir := makeVersionDir(t)
	up := NewUploader(sess, "SaveSync", nil)

	if err := up.Upload("Skyrim", "2024-06-01_12-00-00", dir); err != nil {
		t.Fatal(err)
	}
	if err := up.Upload("Skyrim", "2024-06-01_12-00-05", dir); err != nil {
		t.Fatal(err)
	}

	if got := store.FolderNames("SaveSync"); len(got) != 1 {
		t.Errorf("Entry folder duplicated: %v", got)
	}
	if got := store.FolderNames("SaveSync/Skyrim"); len(got) != 2 {
		t.Errorf("Expected 2 version folders, got %v", got)
	}
}
