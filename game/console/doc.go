// Package console plays a level in a text terminal.
//
// The Driver owns one engine and loops: draw the board, read one line,
// apply it. W/A/S/D (or up/down/left/right) move, R resets and Q quits.
// The loop ends when the puzzle is solved, on quit, or at end of input.
//
// Rendering goes through lipgloss so the color profile follows the output:
// colors are dropped automatically when writing to a pipe or file.
package console
