// Package logsink provides the single status message consumer used by all
// sync, upload, prune, and restore operations. Every outcome of an operation
// produces at least one human-readable line here; failures are converted to
// log lines at the operation boundary instead of propagating upward.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink consumes one status message at a time.
type Sink interface {
	Log(message string)
}

// Func adapts a plain function to the Sink interface.
type Func func(message string)

func (f Func) Log(message string) { f(message) }

// Discard is a Sink that drops every message.
var Discard = Func(func(string) {})

// FileSink timestamps each message, appends it to a persistent log file,
// and optionally echoes it to the operator.
type FileSink struct {
	path string
	echo func(string)
	mu   sync.Mutex
}

// NewFileSink creates a sink appending to path. echo may be nil.
func NewFileSink(path string, echo func(string)) *FileSink {
	return &FileSink{path: path, echo: echo}
}

// Log writes one timestamped line. Logging failures are swallowed: the log
// is an availability aid, never a reason to abort an operation.
func (s *FileSink) Log(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), message)

	if s.echo != nil {
		s.echo(message)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
