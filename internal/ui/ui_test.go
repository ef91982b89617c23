package ui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatBytes(tt.bytes); got != tt.expected {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestPrintTable(t *testing.T) {
	out := captureStdout(t, func() {
		PrintTable(
			[]string{"ENTRY", "VERSION", "SIZE"},
			[][]string{
				{"elden", "2025-06-01_10-00-00", "1.00 KB"},
				{"hades", "-", "-"},
			},
		)
	})

	for _, want := range []string{"ENTRY", "VERSION", "SIZE", "elden", "2025-06-01_10-00-00", "1.00 KB", "hades"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryTable(t *testing.T) {
	out := captureStdout(t, func() {
		PrintSummaryTable(map[string]string{
			"Config":      "/home/u/.savesync.yaml",
			"Backup root": "/home/u/.savesync/backup",
		})
	})

	if !strings.Contains(out, "/home/u/.savesync.yaml") || !strings.Contains(out, "/home/u/.savesync/backup") {
		t.Errorf("summary output missing values:\n%s", out)
	}
}

func TestSpinnerLifecycle(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Connecting")
	s.writer = &buf

	s.Start()
	s.UpdateMessage("Connected")
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Connecting") || !strings.Contains(out, "Connected") {
		t.Errorf("spinner output missing messages:\n%s", out)
	}

	buf.Reset()
	s.Stop()
	if buf.Len() != 0 {
		t.Error("stopped spinner must not print again")
	}
}
