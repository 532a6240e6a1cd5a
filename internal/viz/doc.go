// Package viz renders a bubble layout in the terminal.
//
// [Model] is a Bubble Tea program that acts as the animation-frame
// scheduler of a session: every tick runs one frame, keys scrub the year
// and the mouse drags bubbles. Bubbles are drawn on a braille [Canvas].
//
// # Key Bindings
//
//	←/H, →/L  - Previous / next year
//	Home/End  - First / last year
//	Tab       - Select the next bubble
//	T         - Cycle color themes
//	?         - Show help overlay
//
// Pressing the left mouse button on a bubble pins it under the pointer
// until the button is released.
package viz
