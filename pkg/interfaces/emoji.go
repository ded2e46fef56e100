package interfaces

// EmojiTable maps a shortcode to its glyph. Tables are loaded once and shared
// read-only across parse calls.
type EmojiTable interface {
	Resolve(shortcode string) (string, bool)
}
