// Package hierarchy mirrors a local version directory into the remote
// store's three-level namespace: root folder, entry folder, version folder,
// with the live folder's relative tree re-created inside the version
// folder. Folder nodes are created lazily and idempotently.
package hierarchy

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/harshpatel5940/savesync/internal/logsink"
	"github.com/harshpatel5940/savesync/internal/remote"
)

// Uploader pushes one version of one entry into the remote hierarchy.
type Uploader struct {
	sess remote.Session
	root string
	sink logsink.Sink
}

// NewUploader creates an uploader working under the namespace root folder.
func NewUploader(sess remote.Session, root string, sink logsink.Sink) *Uploader {
	if sink == nil {
		sink = logsink.Discard
	}
	return &Uploader{sess: sess, root: root, sink: sink}
}

// Upload ensures root/entry/version exists remotely, then walks localDir and
// uploads every file into its corresponding remote folder, logging one line
// per file. On error the partial hierarchy is left in place; folders are
// never re-created destructively, so re-running an interrupted upload reuses
// the existing nodes.
func (u *Uploader) Upload(entry, versionName, localDir string) error {
	rootNode, err := u.EnsurePath(u.root)
	if err != nil {
		return err
	}
	entryNode, err := u.ensureFolder(rootNode, entry)
	if err != nil {
		return err
	}
	versionNode, err := u.ensureFolder(entryNode, versionName)
	if err != nil {
		return err
	}

	// Remote folder node per already-ensured relative directory.
	folders := map[string]remote.NodeID{".": versionNode}

	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		relDir := filepath.ToSlash(filepath.Dir(rel))

		dest, err := u.ensureTree(folders, versionNode, relDir)
		if err != nil {
			return err
		}

		if err := u.sess.Upload(p, dest); err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}

		u.sink.Log(fmt.Sprintf("Uploaded %s to %s", d.Name(), u.displayPath(entry, versionName, relDir)))
		return nil
	})
}

// EnsurePath ensures every segment of a /-separated path exists, reusing
// existing folders, and returns the final node.
func (u *Uploader) EnsurePath(p string) (remote.NodeID, error) {
	node, ok, err := u.sess.ResolvePath("")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("remote root not reachable")
	}

	for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		node, err = u.ensureFolder(node, segment)
		if err != nil {
			return "", err
		}
	}
	return node, nil
}

// ensureFolder returns the child folder of parent with the given name,
// creating it only when the lookup finds nothing. A concurrent duplicate
// create is tolerated but never assumed impossible.
func (u *Uploader) ensureFolder(parent remote.NodeID, name string) (remote.NodeID, error) {
	children, err := u.sess.ListChildren(parent)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", parent, err)
	}
	for _, c := range children {
		if c.IsFolder && c.Name == name {
			return c.ID, nil
		}
	}

	id, err := u.sess.CreateFolder(parent, name)
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	return id, nil
}

// ensureTree ensures the relative directory chain below the version node,
// memoizing nodes so each folder is looked up at most once per upload.
func (u *Uploader) ensureTree(folders map[string]remote.NodeID, versionNode remote.NodeID, relDir string) (remote.NodeID, error) {
	if node, ok := folders[relDir]; ok {
		return node, nil
	}

	parentDir := path.Dir(relDir)
	parent, err := u.ensureTree(folders, versionNode, parentDir)
	if err != nil {
		return "", err
	}

	node, err := u.ensureFolder(parent, path.Base(relDir))
	if err != nil {
		return "", err
	}
	folders[relDir] = node
	return node, nil
}

func (u *Uploader) displayPath(entry, versionName, relDir string) string {
	p := u.root + "/" + entry + "/" + versionName
	if relDir != "." {
		p += "/" + relDir
	}
	return p
}
