package utils

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// HomeRelative replaces the user's home directory prefix with ~.
func HomeRelative(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):]
	}
	return path
}

// ShortenPath keeps the leading segment and as many trailing segments as fit,
// joined by "/../". The file name is the last thing to be cut.
func ShortenPath(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(path) <= maxWidth {
		return path
	}

	head := ""
	rest := path
	switch {
	case strings.HasPrefix(path, "~/"):
		head, rest = "~", path[2:]
	case strings.HasPrefix(path, "/"):
		rest = path[1:]
		if i := strings.Index(rest, "/"); i >= 0 {
			head, rest = "/"+rest[:i], rest[i+1:]
		} else {
			return ansi.Truncate(path, maxWidth, "..")
		}
	default:
		if i := strings.Index(rest, "/"); i >= 0 {
			head, rest = rest[:i], rest[i+1:]
		} else {
			return ansi.Truncate(path, maxWidth, "..")
		}
	}

	segments := strings.Split(rest, "/")
	for n := min(3, len(segments)); n >= 1; n-- {
		candidate := head + "/../" + strings.Join(segments[len(segments)-n:], "/")
		if ansi.StringWidth(candidate) <= maxWidth {
			return candidate
		}
	}

	prefix := head + "/../"
	avail := maxWidth - ansi.StringWidth(prefix)
	if avail <= 2 {
		return ansi.Truncate(segments[len(segments)-1], maxWidth, "..")
	}
	return prefix + ansi.Truncate(segments[len(segments)-1], avail, "..")
}
