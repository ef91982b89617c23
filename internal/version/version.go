// Package version defines the naming scheme for save-folder versions.
// A version name is a second-resolution timestamp formatted so that
// lexicographic ordering of names equals chronological ordering, which
// lets every other package sort versions as plain strings.
package version

import (
	"sort"
	"time"
)

// Layout is the timestamp format used for version directory names.
const Layout = "2006-01-02_15-04-05"

// Now returns a version name for the current time.
func Now() string {
	return Format(time.Now())
}

// Format returns the version name for t.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse converts a version name back into a time.Time.
func Parse(name string) (time.Time, error) {
	return time.ParseInLocation(Layout, name, time.Local)
}

// IsValid reports whether name is a well-formed version name.
func IsValid(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// SortDescending sorts version names newest first, in place.
func SortDescending(names []string) {
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
}

// Latest returns the newest version name, or "" if names is empty.
func Latest(names []string) string {
	latest := ""
	for _, n := range names {
		if n > latest {
			latest = n
		}
	}
	return latest
}
