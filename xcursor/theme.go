package xcursor

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"deedles.dev/wlcursor/internal/set"
)

type themeCursor struct {
	theme, name string
}

// Locate finds a cursor file in the named theme, walking the theme's
// Inherits chain as necessary. Each name in names is an alternative
// for the same semantic cursor, tried in order, so that a theme which
// only provides some of the expected names is still preferred over
// its fallbacks. If theme is empty or does not provide the cursor,
// the theme named "default" is tried as a last resort.
//
// The caller is responsible for closing the returned file.
func Locate(names []string, theme string, paths []string) (*os.File, error) {
	visited := make(set.Set[themeCursor])
	if theme != "" {
		for _, name := range names {
			if file := locate(visited, paths, theme, name); file != nil {
				return file, nil
			}
		}
	}
	for _, name := range names {
		if file := locate(visited, paths, "default", name); file != nil {
			return file, nil
		}
	}
	return nil, ErrNotFound
}

// locate searches every path for theme's copy of the named cursor,
// recursing into the theme's parents if it has none. visited guards
// against cycles in the Inherits graph.
func locate(visited set.Set[themeCursor], paths []string, theme, name string) *os.File {
	if !visited.AddNew(themeCursor{theme, name}) {
		return nil
	}

	var parents []string
	haveParents := false
	for _, path := range paths {
		themeDir := filepath.Join(path, theme)
		file, err := os.Open(filepath.Join(themeDir, "cursors", name))
		if err == nil {
			return file
		}
		if !haveParents {
			parents, haveParents = parentThemes(filepath.Join(themeDir, "index.theme"))
		}
	}
	for _, parent := range parents {
		if file := locate(visited, paths, parent, name); file != nil {
			return file
		}
	}
	return nil
}

// parentThemes extracts the parent theme names from an index.theme
// file. The file is really an INI file with sections, but this treats
// it as a flat list of lines and uses the first Inherits line found.
// That behavior is inherited from libxcursor.
func parentThemes(path string) (parents []string, ok bool) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	for s.Scan() {
		after, found := strings.CutPrefix(s.Text(), "Inherits")
		if !found {
			continue
		}
		after = strings.TrimLeft(after, " \t")
		after, found = strings.CutPrefix(after, "=")
		if !found {
			continue
		}

		parents = strings.FieldsFunc(after, func(c rune) bool {
			return (c == ' ') || (c == '\t') || (c == ';') || (c == ',')
		})
		return parents, true
	}
	return nil, false
}
