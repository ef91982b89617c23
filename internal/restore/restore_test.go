package restore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/snapshot"
)

// fakePicker returns a fixed choice, recording what it was offered.
type fakePicker struct {
	choice  string
	cancel  bool
	offered []string
}

func (p *fakePicker) Pick(entry string, candidates []string) (string, bool, error) {
	p.offered = candidates
	if p.cancel {
		return "", false, nil
	}
	return p.choice, true, nil
}

func listFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	found := map[string]string{}
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		data, _ := os.ReadFile(path)
		found[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	return found
}

func TestSelectLocalNewestFirst(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store := snapshot.NewStore(tmpDir)
	for _, name := range []string{
		"2024-06-01_10-00-00",
		"2024-06-03_10-00-00",
		"2024-06-02_10-00-00",
	} {
		os.MkdirAll(filepath.Join(tmpDir, "Skyrim", name), 0755)
	}

	picker := &fakePicker{choice: "2024-06-02_10-00-00"}
	sel := NewSelector(picker, nil)

	choice, ok, err := sel.SelectLocal(store, "Skyrim")
	if err != nil || !ok {
		t.Fatalf("SelectLocal = ok %v, err %v", ok, err)
	}
	if choice != "2024-06-02_10-00-00" {
		t.Errorf("choice = %q", choice)
	}

	if !sort.SliceIsSorted(picker.offered, func(i, j int) bool {
		return picker.offered[i] > picker.offered[j]
	}) {
		t.Errorf("Candidates not newest first: %v", picker.offered)
	}
}

func TestSelectEmptyListLogsAndReturnsNoSelection(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	var logged []string
	sink := logsink.Func(func(msg string) { logged = append(logged, msg) })

	sel := NewSelector(&fakePicker{}, sink)
	_, ok, err := sel.SelectLocal(snapshot.NewStore(tmpDir), "Skyrim")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Empty candidate list must yield no selection")
	}
	if len(logged) == 0 || !strings.Contains(logged[0], "No versions") {
		t.Errorf("Expected a log line, got %v", logged)
	}
}

func TestSelectCancelled(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store := snapshot.NewStore(tmpDir)
	os.MkdirAll(filepath.Join(tmpDir, "Skyrim", "2024-06-01_10-00-00"), 0755)

	sel := NewSelector(&fakePicker{cancel: true}, nil)
	_, ok, err := sel.SelectLocal(store, "Skyrim")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Cancelled pick must yield no selection")
	}
}

func TestRestoreLocalReplacesLiveFolder(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	versionDir := filepath.Join(tmpDir, "version")
	os.MkdirAll(filepath.Join(versionDir, "profiles"), 0755)
	os.WriteFile(filepath.Join(versionDir, "a.sav"), []byte("old-a"), 0644)
	os.WriteFile(filepath.Join(versionDir, "profiles", "b.sav"), []byte("old-b"), 0644)

	// Live folder holds unrelated junk that must disappear.
	live := filepath.Join(tmpDir, "live")
	os.MkdirAll(filepath.Join(live, "junkdir"), 0755)
	os.WriteFile(filepath.Join(live, "junk.sav"), []byte("junk"), 0644)
	os.WriteFile(filepath.Join(live, "a.sav"), []byte("newer-a"), 0644)

	if err := NewExecutor(nil).RestoreLocal(versionDir, live); err != nil {
		t.Fatalf("RestoreLocal failed: %v", err)
	}

	got := listFiles(t, live)
	want := map[string]string{"a.sav": "old-a", "profiles/b.sav": "old-b"}
	if len(got) != len(want) {
		t.Fatalf("Live files = %v, want %v", got, want)
	}
	for rel, content := range want {
		if got[rel] != content {
			t.Errorf("%s = %q, want %q", rel, got[rel], content)
		}
	}

	// No staging leftovers next to the live folder.
	entries, _ := os.ReadDir(tmpDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".savesync-stage-") {
			t.Errorf("Staging directory left behind: %s", e.Name())
		}
	}
}

func TestRestoreLocalMissingLiveFolder(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	versionDir := filepath.Join(tmpDir, "version")
	os.MkdirAll(versionDir, 0755)
	os.WriteFile(filepath.Join(versionDir, "a.sav"), []byte("x"), 0644)

	live := filepath.Join(tmpDir, "sub", "live")
	if err := NewExecutor(nil).RestoreLocal(versionDir, live); err != nil {
		t.Fatalf("RestoreLocal to fresh path failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(live, "a.sav")); err != nil {
		t.Errorf("Restored file missing: %v", err)
	}
}

func seedRemoteVersion(t *testing.T, store *remote.Memory, files map[string]string) remote.NodeID {
	t.Helper()
	sess, _ := store.Connect()
	defer sess.Close()

	root, _, _ := sess.ResolvePath("")
	base, _ := sess.CreateFolder(root, "SaveSync")
	entry, _ := sess.CreateFolder(base, "Skyrim")
	ver, _ := sess.CreateFolder(entry, "2024-06-01_10-00-00")

	tmpDir, err := os.MkdirTemp("", "savesync-seed-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	folders := map[string]remote.NodeID{".": ver}
	for rel, content := range files {
		dir := filepath.ToSlash(filepath.Dir(rel))
		parent, exists := folders[dir]
		if !exists {
			parent = ver
			for _, seg := range strings.Split(dir, "/") {
				next, err := sess.CreateFolder(parent, seg)
				if err != nil {
					t.Fatal(err)
				}
				parent = next
			}
			folders[dir] = parent
		}

		local := filepath.Join(tmpDir, filepath.Base(rel))
		os.WriteFile(local, []byte(content), 0644)
		if err := sess.Upload(local, parent); err != nil {
			t.Fatal(err)
		}
	}
	return ver
}

func TestRestoreRemoteStagesThenReplaces(t *testing.T) {
	store := remote.NewMemory()
	ver := seedRemoteVersion(t, store, map[string]string{
		"a.sav":          "remote-a",
		"profiles/b.sav": "remote-b",
	})

	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	live := filepath.Join(tmpDir, "live")
	os.MkdirAll(live, 0755)
	os.WriteFile(filepath.Join(live, "stale.sav"), []byte("stale"), 0644)

	sess, _ := store.Connect()
	defer sess.Close()

	if err := NewExecutor(nil).RestoreRemote(sess, ver, "2024-06-01_10-00-00", live); err != nil {
		t.Fatalf("RestoreRemote failed: %v", err)
	}

	got := listFiles(t, live)
	want := map[string]string{"a.sav": "remote-a", "profiles/b.sav": "remote-b"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Live files = %v, want %v", got, want)
	}
}

func TestRestoreRemoteFailureKeepsLiveFolder(t *testing.T) {
	store := remote.NewMemory()
	seedRemoteVersion(t, store, map[string]string{"a.sav": "remote-a"})

	tmpDir, err := os.MkdirTemp("", "savesync-restore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	live := filepath.Join(tmpDir, "live")
	os.MkdirAll(live, 0755)
	os.WriteFile(filepath.Join(live, "precious.sav"), []byte("precious"), 0644)

	sess, _ := store.Connect()
	defer sess.Close()

	// A bogus node makes the download fail before any destructive step.
	err = NewExecutor(nil).RestoreRemote(sess, remote.NodeID("mem-bogus"), "v", live)
	if err == nil {
		t.Fatal("Expected failure for bogus version node")
	}

	if data, err := os.ReadFile(filepath.Join(live, "precious.sav")); err != nil || string(data) != "precious" {
		t.Error("Live folder must be untouched when staging fails")
	}

	entries, _ := os.ReadDir(tmpDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".savesync-stage-") {
			t.Errorf("Staging directory left behind after failure: %s", e.Name())
		}
	}
}

func TestRemoteVersionsMissingEntry(t *testing.T) {
	store := remote.NewMemory()
	sess, _ := store.Connect()
	defer sess.Close()

	names, byName, err := RemoteVersions(sess, "SaveSync", "Unknown")
	if err != nil {
		t.Fatal(err)
	}
	if names != nil || byName != nil {
		t.Errorf("Missing entry should yield nothing: %v %v", names, byName)
	}
}
