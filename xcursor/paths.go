package xcursor

import (
	"os"
	"strconv"
	"strings"

	"deedles.dev/wlcursor/internal/debug"
)

var defaultSearchPaths = []string{
	"~/.icons",
	"/usr/share/icons",
	"/usr/share/pixmaps",
	"/usr/X11R6/lib/X11/icons",
}

// SearchPaths returns the list of directories that themes are looked
// up in, in priority order. It respects the $XCURSOR_PATH environment
// variable, falling back to the standard locations if it is unset. A
// leading ~ in an entry is expanded using $HOME. If $HOME is unset,
// such entries are skipped.
func SearchPaths() []string {
	entries := defaultSearchPaths
	if v, ok := os.LookupEnv("XCURSOR_PATH"); ok {
		entries = strings.Split(v, ":")
	}

	home, haveHome := os.LookupEnv("HOME")
	paths := make([]string, 0, len(entries))
	for _, path := range entries {
		if strings.HasPrefix(path, "~") {
			if !haveHome {
				debug.Warnf("HOME is not set. Cannot expand %q. Ignoring.", path)
				continue
			}
			path = home + path[1:]
		}
		paths = append(paths, path)
	}
	return paths
}

// ThemeName returns the name of the cursor theme configured via
// $XCURSOR_THEME, or the empty string if none is configured.
func ThemeName() string {
	return os.Getenv("XCURSOR_THEME")
}

// DefaultSize returns the logical cursor size configured via
// $XCURSOR_SIZE, or 24 if it is unset or unparsable.
func DefaultSize() uint32 {
	if v, ok := os.LookupEnv("XCURSOR_SIZE"); ok {
		if size, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(size)
		}
	}
	return 24
}
