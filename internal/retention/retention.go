// Package retention prunes old versions beyond a keep-newest count. Remote
// pruning runs after each successful upload; the local store is only ever
// trimmed through the explicit cleanup command, via a pluggable policy.
package retention

import (
	"fmt"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
	"github.com/harshpatel5940/savesync/internal/snapshot"
	"github.com/harshpatel5940/savesync/internal/version"
)

// PruneRemote deletes every version folder of entry beyond the keep newest
// ones, by name ordering (version names sort newest-first). Deletion
// failures are logged per folder and do not abort remaining deletions.
// Returns how many folders were deleted.
func PruneRemote(sess remote.Session, root, entry string, keep int, sink logsink.Sink) (int, error) {
	if sink == nil {
		sink = logsink.Discard
	}
	if keep < 0 {
		keep = 0
	}

	entryNode, ok, err := sess.ResolvePath(root + "/" + entry)
	if err != nil {
		return 0, fmt.Errorf("resolve entry folder: %w", err)
	}
	if !ok {
		return 0, nil
	}

	children, err := sess.ListChildren(entryNode)
	if err != nil {
		return 0, fmt.Errorf("list versions: %w", err)
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

	if len(names) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, name := range names[keep:] {
		if err := sess.Delete(byName[name]); err != nil {
			sink.Log(fmt.Sprintf("Failed to prune %s/%s/%s: %v", root, entry, name, err))
			continue
		}
		sink.Log(fmt.Sprintf("Pruned old version %s/%s/%s", root, entry, name))
		deleted++
	}
	return deleted, nil
}

// Policy decides which local versions of an entry to remove. The sync pass
// never applies one; the default behavior is unbounded local history.
type Policy interface {
	// Apply removes versions according to the policy and returns how many
	// were deleted.
	Apply(store *snapshot.Store, entry string, sink logsink.Sink) (int, error)
}

// KeepAll retains every local version.
type KeepAll struct{}

func (KeepAll) Apply(*snapshot.Store, string, logsink.Sink) (int, error) {
	return 0, nil
}

// KeepCount retains only the N newest local versions.
type KeepCount struct {
	N int
}

func (p KeepCount) Apply(store *snapshot.Store, entry string, sink logsink.Sink) (int, error) {
	if sink == nil {
		sink = logsink.Discard
	}
	keep := p.N
	if keep < 0 {
		keep = 0
	}

	names, err := store.List(entry)
	if err != nil {
		return 0, err
	}
	if len(names) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, name := range names[keep:] {
		if err := store.Delete(entry, name); err != nil {
			sink.Log(fmt.Sprintf("Failed to remove local version %s/%s: %v", entry, name, err))
			continue
		}
		sink.Log(fmt.Sprintf("Removed local version %s/%s", entry, name))
		deleted++
	}
	return deleted, nil
}
