package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown styles shipped with glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// styleAliases maps names accepted in config.json to glamour style names
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"plain":      StyleNoTTY,
}

// StyleInfo describes a markdown style for the config menu.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles in menu order.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night colors"},
		{Name: StyleDracula, Description: "Dracula colors"},
		{Name: StylePink, Description: "Soft pink accents"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleNoTTY, Description: "Plain text, no colors"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns the names from AvailableStyles.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// NormalizeStyle resolves aliases and trims whitespace
func NormalizeStyle(style string) string {
	style = strings.TrimSpace(style)
	if alias, ok := styleAliases[strings.ToLower(style)]; ok {
		return alias
	}
	return style
}

// IsBuiltinStyle reports whether style names a glamour built-in style.
func IsBuiltinStyle(style string) bool {
	style = NormalizeStyle(style)
	for _, name := range StyleNames() {
		if name == style {
			return true
		}
	}
	return false
}

// styleOption picks the glamour option for a style: built-in names use the
// standard style table, anything else is treated as a JSON theme file path.
func styleOption(style string) (glamour.TermRendererOption, error) {
	style = NormalizeStyle(style)
	if style == "" {
		style = StyleDark
	}
	if IsBuiltinStyle(style) {
		return glamour.WithStandardStyle(style), nil
	}
	if _, err := os.Stat(style); err != nil {
		return nil, err
	}
	return glamour.WithStylePath(style), nil
}
