// Package remote defines the capability interface savesync needs from a
// remote object store: resolve a path to a node, list a folder's children,
// create folders, upload, download, and delete. The rest of the code never
// depends on a specific vendor API.
//
// Implementations: S3-compatible storage (AWS S3, Backblaze B2, MinIO,
// DigitalOcean Spaces, Cloudflare R2) and an in-process memory store used
// by tests.
package remote

import (
	"fmt"
	"time"
)

// NodeID identifies a file or folder node in the remote store.
type NodeID string

// Node describes one child of a folder.
type Node struct {
	ID        NodeID
	Name      string
	IsFolder  bool
	CreatedAt time.Time
}

// Client opens sessions against a remote store. A session is acquired
// around each operation and released with Close, never held globally.
type Client interface {
	Connect() (Session, error)
}

// Session is an authenticated connection to the remote store.
type Session interface {
	// ResolvePath resolves a /-separated path to a node, reporting
	// ok=false when no such node exists.
	ResolvePath(path string) (NodeID, bool, error)

	// ListChildren returns the immediate children of a folder node.
	ListChildren(node NodeID) ([]Node, error)

	// CreateFolder creates a folder under parent and returns its node.
	CreateFolder(parent NodeID, name string) (NodeID, error)

	// Upload stores a local file inside a folder node, keeping its name.
	Upload(localFile string, dest NodeID) error

	// Download fetches a file node into destDir, keeping its name.
	Download(node NodeID, destDir string) error

	// Delete removes a node; deleting a folder removes its subtree.
	Delete(node NodeID) error

	Close() error
}

// Config holds remote store configuration.
type Config struct {
	Provider  string `yaml:"provider"` // "s3" (also works for B2, MinIO, R2, etc.)
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint,omitempty"` // Custom endpoint for S3-compatible services
	Root      string `yaml:"root"`               // Namespace root folder
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// NewClient creates a remote store client based on configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "s3", "":
		return NewS3Client(cfg), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported remote provider: %s", cfg.Provider)
	}
}
