// Package viz presents decoded messages in the terminal.
//
//   - [Frame]: the message inside a rounded border with a title and size caption
//   - [Viewer]: a Bubble Tea model for scrolling messages larger than the screen
//
// # Key Bindings
//
//	↑/↓, PgUp/PgDn - Scroll
//	q, Esc         - Quit
package viz
