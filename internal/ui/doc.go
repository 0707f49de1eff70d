// Package ui holds the colour themes shared by the CLI and the TUI. It
// respects --no-color and the NO_COLOR environment variable.
package ui
