package remote

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process remote store. It backs the test suites of every
// package that needs a Session and doubles as a scratch target when
// exercising sync logic without network access.
type Memory struct {
	mu     sync.Mutex
	nodes  map[NodeID]*memNode
	nextID int
}

type memNode struct {
	id       NodeID
	name     string
	folder   bool
	parent   NodeID
	children []NodeID
	content  []byte
	created  time.Time
}

const memoryRoot = NodeID("mem-root")

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	m := &Memory{nodes: map[NodeID]*memNode{}}
	m.nodes[memoryRoot] = &memNode{id: memoryRoot, folder: true, created: time.Now()}
	return m
}

// Connect implements Client. Every session shares the same node tree.
func (m *Memory) Connect() (Session, error) {
	return &memorySession{store: m}, nil
}

func (m *Memory) allocID() NodeID {
	m.nextID++
	return NodeID(fmt.Sprintf("mem-%d", m.nextID))
}

func (m *Memory) child(parent NodeID, name string) (*memNode, bool) {
	p, ok := m.nodes[parent]
	if !ok {
		return nil, false
	}
	for _, id := range p.children {
		if n := m.nodes[id]; n != nil && n.name == name {
			return n, true
		}
	}
	return nil, false
}

// FolderNames lists the child folder names under a /-separated path.
// Test helper; returns nil when the path does not exist.
func (m *Memory) FolderNames(path string) []string {
	sess := &memorySession{store: m}
	id, ok, _ := sess.ResolvePath(path)
	if !ok {
		return nil
	}
	children, _ := sess.ListChildren(id)
	var names []string
	for _, c := range children {
		if c.IsFolder {
			names = append(names, c.Name)
		}
	}
	return names
}

// FileContent returns the content of the file at a /-separated path.
// Test helper.
func (m *Memory) FileContent(path string) ([]byte, bool) {
	sess := &memorySession{store: m}
	id, ok, _ := sess.ResolvePath(path)
	if !ok {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok || n.folder {
		return nil, false
	}
	return n.content, true
}

type memorySession struct {
	store *Memory
}

func (s *memorySession) ResolvePath(path string) (NodeID, bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cur := s.store.nodes[memoryRoot]
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			continue
		}
		next, ok := s.store.child(cur.id, segment)
		if !ok {
			return "", false, nil
		}
		cur = next
	}
	return cur.id, true, nil
}

func (s *memorySession) ListChildren(node NodeID) ([]Node, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	n, ok := s.store.nodes[node]
	if !ok {
		return nil, fmt.Errorf("no such node: %s", node)
	}
	if !n.folder {
		return nil, fmt.Errorf("not a folder node: %s", node)
	}

	var children []Node
	for _, id := range n.children {
		c := s.store.nodes[id]
		children = append(children, Node{
			ID:        c.id,
			Name:      c.name,
			IsFolder:  c.folder,
			CreatedAt: c.created,
		})
	}
	return children, nil
}

func (s *memorySession) CreateFolder(parent NodeID, name string) (NodeID, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.nodes[parent]
	if !ok || !p.folder {
		return "", fmt.Errorf("not a folder node: %s", parent)
	}

	// Duplicate creates are allowed, as real stores tolerate the
	// lookup-before-create race.
	id := s.store.allocID()
	s.store.nodes[id] = &memNode{
		id:      id,
		name:    name,
		folder:  true,
		parent:  parent,
		created: time.Now(),
	}
	p.children = append(p.children, id)
	return id, nil
}

func (s *memorySession) Upload(localFile string, dest NodeID) error {
	content, err := os.ReadFile(localFile)
	if err != nil {
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	p, ok := s.store.nodes[dest]
	if !ok || !p.folder {
		return fmt.Errorf("not a folder node: %s", dest)
	}

	name := filepath.Base(localFile)
	if existing, ok := s.store.child(dest, name); ok && !existing.folder {
		existing.content = content
		return nil
	}

	id := s.store.allocID()
	s.store.nodes[id] = &memNode{
		id:      id,
		name:    name,
		parent:  dest,
		content: content,
		created: time.Now(),
	}
	p.children = append(p.children, id)
	return nil
}

func (s *memorySession) Download(node NodeID, destDir string) error {
	s.store.mu.Lock()
	n, ok := s.store.nodes[node]
	if !ok || n.folder {
		s.store.mu.Unlock()
		return fmt.Errorf("not a file node: %s", node)
	}
	name, content := n.name, append([]byte(nil), n.content...)
	s.store.mu.Unlock()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(destDir, name), content, 0644)
}

func (s *memorySession) Delete(node NodeID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	n, ok := s.store.nodes[node]
	if !ok {
		return fmt.Errorf("no such node: %s", node)
	}
	if node == memoryRoot {
		return fmt.Errorf("cannot delete the root node")
	}

	s.store.deleteSubtree(node)

	parent := s.store.nodes[n.parent]
	if parent != nil {
		kept := parent.children[:0]
		for _, id := range parent.children {
			if id != node {
				kept = append(kept, id)
			}
		}
		parent.children = kept
	}
	return nil
}

func (m *Memory) deleteSubtree(node NodeID) {
	n, ok := m.nodes[node]
	if !ok {
		return
	}
	for _, id := range n.children {
		m.deleteSubtree(id)
	}
	delete(m.nodes, node)
}

func (s *memorySession) Close() error {
	return nil
}
