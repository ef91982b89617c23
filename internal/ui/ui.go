// Package ui provides terminal output utilities for savesync.
// It includes colored output, progress bars, spinners, and formatted
// display of versions, errors, and sync results.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	Success = color.New(color.FgGreen).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Info    = color.New(color.FgCyan).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()

	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠️"
	IconInfo    = "ℹ️"
)

// Verbose gates PrintVerbose output. The root command's --verbose flag
// sets it.
var Verbose bool

func PrintSuccess(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", Success(IconSuccess), msg)
}

func PrintError(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", Error(IconError), msg)
}

func PrintWarning(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s  %s\n", Warning(IconWarning), msg)
}

func PrintInfo(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s  %s\n", Info(IconInfo), msg)
}

func PrintVerbose(format string, a ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Printf("  %s\n", Dim(fmt.Sprintf(format, a...)))
}

func PrintDim(format string, a ...interface{}) {
	fmt.Printf("%s\n", Dim(fmt.Sprintf(format, a...)))
}

func PrintSectionHeader(emoji, text string) {
	fmt.Printf("\n%s %s\n", emoji, Bold(text))
}

func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stdout, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

type Spinner struct {
	writer  io.Writer
	message string
	active  bool
}

func NewSpinner(message string) *Spinner {
	return &Spinner{
		writer:  os.Stdout,
		message: message,
		active:  false,
	}
}

func (s *Spinner) Start() {
	s.active = true
	fmt.Fprintf(s.writer, "  %s %s...", Info("⏳"), s.message)
}

func (s *Spinner) Stop() {
	if s.active {
		fmt.Fprintf(s.writer, "\r  %s %s\n", Success(IconSuccess), s.message)
		s.active = false
	}
}

func (s *Spinner) Fail() {
	if s.active {
		fmt.Fprintf(s.writer, "\r  %s %s\n", Error(IconError), s.message)
		s.active = false
	}
}

func (s *Spinner) UpdateMessage(message string) {
	s.message = message
	if s.active {
		fmt.Fprintf(s.writer, "\r  %s %s...", Info("⏳"), s.message)
	}
}

func PrintDivider() {
	fmt.Println(Dim("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
}

func repeat(s string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += s
	}
	return result
}

func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func PrintSummaryTable(items map[string]string) {
	maxKeyLen := 0
	for key := range items {
		if len(key) > maxKeyLen {
			maxKeyLen = len(key)
		}
	}

	PrintDivider()
	for key, value := range items {
		padding := repeat(" ", maxKeyLen-len(key))
		fmt.Printf("  %s:%s %s\n", Bold(key), padding, value)
	}
	PrintDivider()
}

// PrintTable prints rows under bold column headers.
func PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Printf("%s%s  ", Bold(h), repeat(" ", widths[i]-len(h)))
	}
	fmt.Println()
	for _, row := range rows {
		for i, cell := range row {
			pad := 0
			if i < len(widths) {
				pad = widths[i] - len(cell)
			}
			fmt.Printf("%s%s  ", cell, repeat(" ", pad))
		}
		fmt.Println()
	}
}

// PrintVersionList prints the versions of one entry, newest first.
func PrintVersionList(entry string, versions []string) {
	if len(versions) == 0 {
		fmt.Printf("  %s %s: no versions\n", Dim("-"), entry)
		return
	}
	fmt.Printf("  %s %s (%d versions)\n", Info("▶"), Bold(entry), len(versions))
	for i, v := range versions {
		marker := " "
		if i == 0 {
			marker = Success("*")
		}
		fmt.Printf("    %s %s\n", marker, v)
	}
}

// PrintErrorWithSolution prints an error with a suggested solution.
func PrintErrorWithSolution(problem, solution, alternative string) {
	fmt.Println()
	PrintError("%s", problem)
	fmt.Println()
	if solution != "" {
		fmt.Printf("📍 %s: %s\n", Bold("Problem"), problem)
		fmt.Printf("🔧 %s: %s\n", Bold("Solution"), solution)
	}
	if alternative != "" {
		fmt.Printf("💡 %s: %s\n", Bold("Alternative"), alternative)
	}
	fmt.Println()
}
