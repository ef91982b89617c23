// Package tui provides interactive terminal UI components using charmbracelet/huh.
// It provides the version selection form used by restore and the confirmation
// dialog shown before a live save folder is replaced.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/harshpatel5940/savesync/internal/version"
)

// VersionPicker presents a single-select form over version names.
// Aborting the form (Esc or Ctrl+C) counts as cancellation, not an error.
type VersionPicker struct{}

// Pick shows the selection form. ok is false when the user cancels.
func (VersionPicker) Pick(entry string, candidates []string) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}

	var selected string

	options := make([]huh.Option[string], 0, len(candidates))
	for i, name := range candidates {
		options = append(options, huh.NewOption(formatVersionLabel(name, i == 0, time.Now()), name))
	}

	form := ApplyTheme(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(TitleStyle.Render(fmt.Sprintf("Select a version of %s", entry))).
				Description("Newest first, Enter to confirm, Esc to cancel").
				Options(options...).
				Value(&selected),
		),
	))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}

	return selected, true, nil
}

// ConfirmRestore asks for confirmation before the live folder is replaced.
func ConfirmRestore(entry, versionName, livePath string) (bool, error) {
	var confirm bool

	form := ApplyTheme(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace the current save of %s?", entry)).
				Description(fmt.Sprintf("%s will be replaced with version %s. The current contents are lost.", PathStyle.Render(livePath), versionName)).
				Affirmative("Yes, restore").
				Negative("Cancel").
				Value(&confirm),
		),
	))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}

	return confirm, nil
}

// formatVersionLabel turns a version name into a display label with its age.
func formatVersionLabel(name string, latest bool, now time.Time) string {
	label := name
	if t, err := version.Parse(name); err == nil {
		label = fmt.Sprintf("%s  %s", name, DimStyle.Render(fmt.Sprintf("(%s)", relativeAge(now.Sub(t)))))
	}
	if latest {
		label += "  " + HighlightStyle.Render("[latest]")
	}
	return label
}

// relativeAge renders a duration as a coarse human-readable age.
func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
