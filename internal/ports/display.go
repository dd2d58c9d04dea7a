package ports

// Display is a fixed-width character display (16x2 LCD or a console
// stand-in). Lines beyond the display height are dropped, lines longer
// than the display width are truncated by the adapter.
type Display interface {
	// Show replaces the display contents with the given lines
	Show(lines ...string) error

	// Clear blanks the display
	Clear() error

	// Close releases the display, leaving it blank
	Close() error
}
