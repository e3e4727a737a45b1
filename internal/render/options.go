// Package render renders assistant replies as terminal markdown and holds
// the colour palettes used by the chat interface.
package render

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the wrap width in columns (default 80)
	Width int

	// Style is a glamour built-in style name or a path to a JSON theme
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}
