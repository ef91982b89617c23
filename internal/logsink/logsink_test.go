package logsink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSinkAppends(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "savesync-logsink-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	logPath := filepath.Join(tmpDir, "nested", "savesync.log")
	var echoed []string
	sink := NewFileSink(logPath, func(msg string) { echoed = append(echoed, msg) })

	sink.Log("Backed up Skyrim")
	sink.Log("No changes in Red Dead 2")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Log file not created: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "Backed up Skyrim") {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("Log line should be timestamped: %q", lines[0])
	}

	if len(echoed) != 2 || echoed[1] != "No changes in Red Dead 2" {
		t.Errorf("Echo callback missed messages: %v", echoed)
	}
}

func TestFuncSink(t *testing.T) {
	var got string
	var sink Sink = Func(func(msg string) { got = msg })

	sink.Log("hello")
	if got != "hello" {
		t.Errorf("Func sink got %q", got)
	}

	// Discard must not panic.
	Discard.Log("dropped")
}
