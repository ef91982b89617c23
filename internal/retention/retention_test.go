package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/snapshot"
)

func seedRemote(t *testing.T, store *remote.Memory, entry string, versions []string) remote.Session {
	t.Helper()
	sess, _ := store.Connect()

	root, _, _ := sess.ResolvePath("")
	base, err := sess.CreateFolder(root, "SaveSync")
	if err != nil {
		t.Fatal(err)
	}
	entryNode, err := sess.CreateFolder(base, entry)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range versions {
		if _, err := sess.CreateFolder(entryNode, v); err != nil {
			t.Fatal(err)
		}
	}
	return sess
}

func TestPruneRemoteKeepsNewest(t *testing.T) {
	store := remote.NewMemory()
	sess := seedRemote(t, store, "Skyrim", []string{
		"2024-06-01_10-00-00",
		"2024-06-03_10-00-00",
		"2024-06-02_10-00-00",
		"2024-06-04_10-00-00",
	})
	defer sess.Close()

	deleted, err := PruneRemote(sess, "SaveSync", "Skyrim", 2, nil)
	if err != nil {
		t.Fatalf("PruneRemote failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining := store.FolderNames("SaveSync/Skyrim")
	if len(remaining) != 2 {
		t.Fatalf("remaining = %v, want 2 folders", remaining)
	}
	for _, name := range remaining {
		if name != "2024-06-04_10-00-00" && name != "2024-06-03_10-00-00" {
			t.Errorf("Old version survived: %s", name)
		}
	}
}

func TestPruneRemoteFewerThanKeep(t *testing.T) {
	store := remote.NewMemory()
	sess := seedRemote(t, store, "Skyrim", []string{"2024-06-01_10-00-00"})
	defer sess.Close()

	deleted, err := PruneRemote(sess, "SaveSync", "Skyrim", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
	if got := store.FolderNames("SaveSync/Skyrim"); len(got) != 1 {
		t.Errorf("remaining = %v", got)
	}
}

func TestPruneRemoteMissingEntryIsNoop(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	deleted, err := PruneRemote(sess, "SaveSync", "Unknown", 1, nil)
	if err != nil || deleted != 0 {
		t.Errorf("PruneRemote = %d, %v; want 0, nil", deleted, err)
	}
}

func TestPruneRemoteDoesNotTouchOtherEntries(t *testing.T) {
	store := remote.NewMemory()
	sess := seedRemote(t, store, "Skyrim", []string{
		"2024-06-01_10-00-00",
		"2024-06-02_10-00-00",
	})
	defer sess.Close()

	// Second entry with its own versions.
	base, _, _ := sess.ResolvePath("SaveSync")
	other, _ := sess.CreateFolder(base, "Red Dead 2")
	sess.CreateFolder(other, "2024-05-01_10-00-00")

	if _, err := PruneRemote(sess, "SaveSync", "Skyrim", 1, nil); err != nil {
		t.Fatal(err)
	}

	if got := store.FolderNames("SaveSync/Red Dead 2"); len(got) != 1 {
		t.Errorf("Other entry's versions touched: %v", got)
	}
}

// failingDelete wraps a session and fails deletion of one node name.
type failingDelete struct {
	remote.Session
	failID remote.NodeID
}

func (f *failingDelete) Delete(node remote.NodeID) error {
	if node == f.failID {
		return fmt.Errorf("simulated delete failure")
	}
	return f.Session.Delete(node)
}

func TestPruneRemoteBestEffort(t *testing.T) {
	store := remote.NewMemory()
	sess := seedRemote(t, store, "Skyrim", []string{
		"2024-06-01_10-00-00",
		"2024-06-02_10-00-00",
		"2024-06-03_10-00-00",
	})
	defer sess.Close()

	// Fail deleting the middle version; the oldest must still go.
	entryNode, _, _ := sess.ResolvePath("SaveSync/Skyrim")
	children, _ := sess.ListChildren(entryNode)
	var failID remote.NodeID
	for _, c := range children {
		if c.Name == "2024-06-02_10-00-00" {
			failID = c.ID
		}
	}

	var logged []string
	sink := logsink.Func(func(msg string) { logged = append(logged, msg) })

	deleted, err := PruneRemote(&failingDelete{Session: sess, failID: failID}, "SaveSync", "Skyrim", 1, sink)
	if err != nil {
		t.Fatalf("PruneRemote returned error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining := store.FolderNames("SaveSync/Skyrim")
	if len(remaining) != 2 {
		t.Errorf("remaining = %v, want the kept and the failed folder", remaining)
	}

	foundFailure := false
	for _, line := range logged {
		if len(line) > 0 && line[0] == 'F' {
			foundFailure = true
		}
	}
	if !foundFailure {
		t.Errorf("Delete failure not logged: %v", logged)
	}
}

func TestLocalKeepCount(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-retention-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store := snapshot.NewStore(tmpDir)
	for _, name := range []string{
		"2024-06-01_10-00-00",
		"2024-06-02_10-00-00",
		"2024-06-03_10-00-00",
	} {
		os.MkdirAll(filepath.Join(tmpDir, "Skyrim", name), 0755)
	}

	deleted, err := KeepCount{N: 1}.Apply(store, "Skyrim", nil)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	names, _ := store.List("Skyrim")
	if len(names) != 1 || names[0] != "2024-06-03_10-00-00" {
		t.Errorf("remaining = %v", names)
	}
}

func TestLocalKeepAll(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-retention-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store := snapshot.NewStore(tmpDir)
	os.MkdirAll(filepath.Join(tmpDir, "Skyrim", "2024-06-01_10-00-00"), 0755)

	deleted, err := KeepAll{}.Apply(store, "Skyrim", nil)
	if err != nil || deleted != 0 {
		t.Errorf("KeepAll = %d, %v; want 0, nil", deleted, err)
	}
	if names, _ := store.List("Skyrim"); len(names) != 1 {
		t.Errorf("KeepAll removed versions: %v", names)
	}
}
