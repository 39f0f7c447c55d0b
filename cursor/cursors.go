package cursor

import (
	"fmt"

	"deedles.dev/wlcursor/internal/debug"
	"deedles.dev/wlcursor/xcursor"
)

// Kind identifies one of the well-known cursor shapes, named after
// the cursor-shape-v1 protocol's shape set.
type Kind int

const (
	Default Kind = iota
	ContextMenu
	Help
	Pointer
	Progress
	Wait
	Cell
	Crosshair
	Text
	VerticalText
	Alias
	Copy
	Move
	NoDrop
	NotAllowed
	Grab
	Grabbing
	EResize
	NResize
	NeResize
	NwResize
	SResize
	SeResize
	SwResize
	WResize
	EwResize
	NsResize
	NeswResize
	NwseResize
	ColResize
	RowResize
	AllScroll
	ZoomIn
	ZoomOut
	DndAsk
	AllResize

	numKinds
)

// kindNames lists, per kind, the file names to try within a theme.
// Later entries are legacy X11 names kept as alternatives so that old
// themes still resolve: a theme that only ships some of the modern
// names is preferred over falling back to the default theme.
var kindNames = [numKinds][]string{
	Default:      {"default", "left_ptr"},
	ContextMenu:  {"context-menu"},
	Help:         {"help"},
	Pointer:      {"pointer", "hand2", "hand1"},
	Progress:     {"progress"},
	Wait:         {"wait", "watch"},
	Cell:         {"cell"},
	Crosshair:    {"crosshair"},
	Text:         {"text", "xterm"},
	VerticalText: {"vertical-text"},
	Alias:        {"alias"},
	Copy:         {"copy"},
	Move:         {"move"},
	NoDrop:       {"no-drop"},
	NotAllowed:   {"not-allowed"},
	Grab:         {"grab"},
	Grabbing:     {"grabbing"},
	EResize:      {"e-resize", "right_side"},
	NResize:      {"n-resize", "top_side"},
	NeResize:     {"ne-resize", "top_right_corner"},
	NwResize:     {"nw-resize", "top_left_corner"},
	SResize:      {"s-resize", "bottom_side"},
	SeResize:     {"se-resize", "bottom_right_corner"},
	SwResize:     {"sw-resize", "bottom_left_corner"},
	WResize:      {"w-resize", "left_side"},
	EwResize:     {"ew-resize", "h_double_arrow"},
	NsResize:     {"ns-resize", "v_double_arrow"},
	NeswResize:   {"nesw-resize"},
	NwseResize:   {"nwse-resize"},
	ColResize:    {"col-resize"},
	RowResize:    {"row-resize"},
	AllScroll:    {"all-scroll", "grabbing"},
	ZoomIn:       {"zoom-in"},
	ZoomOut:      {"zoom-out"},
	DndAsk:       {"dnd-ask", "dnd-copy", "copy"},
	AllResize:    {"all-resize", "move"},
}

func (k Kind) String() string {
	if (k < 0) || (k >= numKinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k][0]
}

// Names returns the theme file names tried for k, in priority order.
func (k Kind) Names() []string {
	return kindNames[k]
}

// Config is the cursor configuration that a set of templates is
// loaded for. It is resolved once, at startup or when the user
// changes themes, and a new Config means a full reload: templates are
// never partially invalidated.
type Config struct {
	// Theme is the theme name. Empty means no configured theme, in
	// which case only the theme named "default" is searched.
	Theme string

	// Scales and Sizes are the active display scales and logical
	// cursor sizes. Cursors are loaded for their full cross product.
	Scales []Scale
	Sizes  []uint32

	// Paths is the theme search path.
	Paths []string
}

// DefaultConfig resolves a configuration from the environment,
// reading $XCURSOR_THEME, $XCURSOR_SIZE, and $XCURSOR_PATH, at scale
// 1.
func DefaultConfig() Config {
	return Config{
		Theme:  xcursor.ThemeName(),
		Scales: []Scale{ScaleInt(1)},
		Sizes:  []uint32{xcursor.DefaultSize()},
		Paths:  xcursor.SearchPaths(),
	}
}

// Set holds one loaded template per cursor kind.
type Set struct {
	templates [numKinds]*Template
}

// LoadAll loads a template for every known cursor kind. It returns
// (nil, nil) if the configuration has no scales or no sizes, meaning
// no valid display configuration is active yet. A non-nil error is
// only possible when even the built-in fallback image cannot be
// uploaded, which leaves the compositor with no way to show a
// pointer at all.
func LoadAll(cfg Config, up Uploader) (*Set, error) {
	if (len(cfg.Scales) == 0) || (len(cfg.Sizes) == 0) {
		return nil, nil
	}
	debug.Printf("trying to load cursors from paths %q", cfg.Paths)

	var s Set
	for kind := Kind(0); kind < numKinds; kind++ {
		t, err := LoadTemplate(kindNames[kind], cfg.Theme, cfg.Scales, cfg.Sizes, cfg.Paths, up)
		if err != nil {
			return nil, fmt.Errorf("load cursor %v: %w", kind, err)
		}
		s.templates[kind] = t
	}
	return &s, nil
}

// Template returns the template for the given kind.
func (s *Set) Template(kind Kind) *Template {
	return s.templates[kind]
}

// Release frees every template in the set.
func (s *Set) Release() {
	for _, t := range s.templates {
		t.Release()
	}
}
